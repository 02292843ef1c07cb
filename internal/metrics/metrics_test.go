package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveRPC(t *testing.T) {
	before := testutil.ToFloat64(rpcRequests.WithLabelValues("/test.Service/Method", "ok"))
	ObserveRPC("/test.Service/Method", "ok", 20*time.Millisecond)
	ObserveRPC("/test.Service/Method", "ok", 30*time.Millisecond)

	assert.Equal(t, before+2, testutil.ToFloat64(rpcRequests.WithLabelValues("/test.Service/Method", "ok")))
}

func TestDomainCounters(t *testing.T) {
	before := testutil.ToFloat64(settlementsRecorded)
	SettlementRecorded()
	assert.Equal(t, before+1, testutil.ToFloat64(settlementsRecorded))

	beforeExpenses := testutil.ToFloat64(expensesCreated.WithLabelValues("equal"))
	ExpenseCreated("equal")
	assert.Equal(t, beforeExpenses+1, testutil.ToFloat64(expensesCreated.WithLabelValues("equal")))

	beforeRejected := testutil.ToFloat64(splitRejections.WithLabelValues("invalid_split"))
	SplitRejected("invalid_split")
	assert.Equal(t, beforeRejected+1, testutil.ToFloat64(splitRejections.WithLabelValues("invalid_split")))
}
