// Package models defines the persisted domain records for eventsplit.
//
// # Records
//
//   - User: registered account; its display name labels participants
//   - Event: something people gather for, owned by a host
//   - RSVP: one user's response to an event
//   - Expense: money one participant paid on behalf of others, with its split
//   - Settlement: a confirmed payment between two participants
//
// Balances and suggested settlements are never stored; they are recomputed
// by the calculator package on every read.
//
// # Conventions
//
//  1. IDs are UUID strings assigned by the store
//  2. Timestamps are Unix seconds
//  3. Money is decimal.Decimal with two decimal places
//  4. Relationships use ID strings instead of pointers
package models
