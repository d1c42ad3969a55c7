package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

// Reporting must count bookings settled under the old single-payment flow,
// which were stored as "confirmed".
func TestSettledMatchIncludesLegacyConfirmed(t *testing.T) {
	match := settledMatch()

	statuses, ok := match["status"].(bson.M)["$in"].([]string)
	require.True(t, ok)
	assert.Contains(t, statuses, string(BookingFullyPaid))
	assert.Contains(t, statuses, "confirmed")
	assert.Len(t, statuses, 2)
}

func TestVendorSettledMatchScopesToVendor(t *testing.T) {
	vendorID := uuid.New()
	match := vendorSettledMatch(vendorID)

	assert.Equal(t, vendorID, match["vendor_id"])
	assert.Equal(t, settledMatch()["status"], match["status"])
	// The shared status filter must not leak the vendor id back.
	assert.NotContains(t, settledMatch(), "vendor_id")
}

func TestMonthlyRollupPipelineShape(t *testing.T) {
	match := settledMatch()
	pipeline := monthlyRollupPipeline(match, "$commission_amount")
	require.Len(t, pipeline, 3)

	matchStage := pipeline[0][0]
	assert.Equal(t, "$match", matchStage.Key)
	assert.Equal(t, match, matchStage.Value)

	groupStage := pipeline[1][0]
	require.Equal(t, "$group", groupStage.Key)
	group, ok := groupStage.Value.(bson.M)
	require.True(t, ok)

	// Grouped by calendar month of creation.
	id, ok := group["_id"].(bson.M)
	require.True(t, ok)
	assert.Equal(t, bson.M{"$year": "$created_at"}, id["year"])
	assert.Equal(t, bson.M{"$month": "$created_at"}, id["month"])

	assert.Equal(t, bson.M{"$sum": "$commission_amount"}, group["total"])
	assert.Equal(t, bson.M{"$sum": 1}, group["bookings"])

	sortStage := pipeline[2][0]
	assert.Equal(t, "$sort", sortStage.Key)
	assert.Equal(t, bson.D{{Key: "_id.year", Value: 1}, {Key: "_id.month", Value: 1}}, sortStage.Value)
}

func TestMonthlyRollupPipelineSumField(t *testing.T) {
	pipeline := monthlyRollupPipeline(vendorSettledMatch(uuid.New()), "$vendor_receives")
	group := pipeline[1][0].Value.(bson.M)
	assert.Equal(t, bson.M{"$sum": "$vendor_receives"}, group["total"])
}
