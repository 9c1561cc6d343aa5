package hubservice

import (
	"context"
	"testing"

	"github.com/itsatony/w4b_v3/server/apiary/internal/errors"
	"github.com/itsatony/w4b_v3/server/apiary/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type workflowFixture struct {
	*harness
	admin, ann, ben, olga, otto *models.Actor
}

func newWorkflowFixture(t *testing.T) *workflowFixture {
	t.Helper()
	h := newHarness(t, critical)
	f := &workflowFixture{harness: h}
	f.admin = h.seedAdmin(t)
	f.ann = h.beekeeper(t, "Ann", "ann@apiary.io")
	f.ben = h.beekeeper(t, "Ben", "ben@apiary.io")
	f.olga = h.officer(t, f.admin, "Olga", "olga@agri.gov")
	f.otto = h.officer(t, f.admin, "Otto", "otto@agri.gov")
	return f
}

func TestSendReport(t *testing.T) {
	f := newWorkflowFixture(t)
	ctx := context.Background()

	_, err := f.svc.SendReport(ctx, f.ann, models.ReportDraft{OfficerID: f.olga.ID})
	assert.Equal(t, errors.CodeMissingFields, errors.CodeOf(err))

	_, err = f.svc.SendReport(ctx, f.ann, models.ReportDraft{OfficerID: f.ben.ID, Message: "help"})
	assert.Equal(t, errors.CodeAccountNotFound, errors.CodeOf(err))

	_, err = f.svc.SendReport(ctx, f.olga, models.ReportDraft{OfficerID: f.otto.ID, Message: "help"})
	assert.Equal(t, errors.CodeForbiddenRole, errors.CodeOf(err))

	rp, err := f.svc.SendReport(ctx, f.ann, models.ReportDraft{OfficerID: f.olga.ID, Message: "bees are sluggish"})
	require.NoError(t, err)
	assert.Equal(t, f.ann.ID, rp.BeekeeperID)

	sent, err := f.svc.ListSentReports(ctx, f.ann)
	require.NoError(t, err)
	require.Len(t, sent, 1)
	assert.Equal(t, "Olga", sent[0].OfficerName)

	received, err := f.svc.ListReceivedReports(ctx, f.olga)
	require.NoError(t, err)
	require.Len(t, received, 1)
	assert.Equal(t, "Ann", received[0].BeekeeperName)

	none, err := f.svc.ListReceivedReports(ctx, f.otto)
	require.NoError(t, err)
	assert.Empty(t, none)

	// re-addressing moves it to the other officer
	_, err = f.svc.UpdateReport(ctx, f.ben, rp.ID, models.ReportDraft{Message: "mine now"})
	assert.Equal(t, errors.CodeNotFoundOrUnauthorized, errors.CodeOf(err))
	_, err = f.svc.UpdateReport(ctx, f.ann, rp.ID, models.ReportDraft{OfficerID: f.otto.ID, Message: "still sluggish"})
	require.NoError(t, err)
	moved, err := f.svc.ListReceivedReports(ctx, f.otto)
	require.NoError(t, err)
	assert.Len(t, moved, 1)
}

func TestDeleteAsymmetry(t *testing.T) {
	f := newWorkflowFixture(t)
	ctx := context.Background()

	rp, err := f.svc.SendReport(ctx, f.ann, models.ReportDraft{OfficerID: f.olga.ID, Message: "m"})
	require.NoError(t, err)
	rec, err := f.svc.AddRecommendation(ctx, f.olga, models.RecommendationDraft{BeekeeperID: f.ann.ID, ReportID: &rp.ID, Message: "add a super"})
	require.NoError(t, err)

	// the recipient officer may delete a report, other officers may not
	err = f.svc.DeleteReport(ctx, f.otto, rp.ID)
	assert.Equal(t, errors.CodeNotFoundOrUnauthorized, errors.CodeOf(err))
	require.NoError(t, f.svc.DeleteReport(ctx, f.olga, rp.ID))

	// the recommendation survives with its dangling report link
	sent, err := f.svc.ListSentRecommendations(ctx, f.olga)
	require.NoError(t, err)
	require.Len(t, sent, 1)
	assert.Nil(t, sent[0].RelatedReportMessage)

	// the beekeeper recipient cannot delete a recommendation
	err = f.svc.DeleteRecommendation(ctx, f.ann, rec.ID)
	assert.Equal(t, errors.CodeForbiddenRole, errors.CodeOf(err))
	err = f.svc.DeleteRecommendation(ctx, f.otto, rec.ID)
	assert.Equal(t, errors.CodeNotFoundOrUnauthorized, errors.CodeOf(err))
	require.NoError(t, f.svc.DeleteRecommendation(ctx, f.olga, rec.ID))

	rp2, err := f.svc.SendReport(ctx, f.ben, models.ReportDraft{OfficerID: f.olga.ID, Message: "m"})
	require.NoError(t, err)
	err = f.svc.DeleteReport(ctx, f.ann, rp2.ID)
	assert.Equal(t, errors.CodeNotFoundOrUnauthorized, errors.CodeOf(err))
	require.NoError(t, f.svc.DeleteReport(ctx, f.ben, rp2.ID))
}

func TestAddRecommendationLinks(t *testing.T) {
	f := newWorkflowFixture(t)
	ctx := context.Background()

	annHive := f.hive(t, f.ann, "A")
	_, err := f.svc.RegisterSensor(ctx, f.ann, SensorInput{HiveID: annHive.ID, SerialNumber: "SN-A", Type: "combined"})
	require.NoError(t, err)
	annReading, err := f.svc.SimulateReading(ctx, f.ann, annHive.ID)
	require.NoError(t, err)

	benHive := f.hive(t, f.ben, "B")
	_, err = f.svc.RegisterSensor(ctx, f.ben, SensorInput{HiveID: benHive.ID, SerialNumber: "SN-B", Type: "combined"})
	require.NoError(t, err)
	benReading, err := f.svc.SimulateReading(ctx, f.ben, benHive.ID)
	require.NoError(t, err)

	annReport, err := f.svc.SendReport(ctx, f.ann, models.ReportDraft{OfficerID: f.olga.ID, Message: "hot"})
	require.NoError(t, err)
	ottoReport, err := f.svc.SendReport(ctx, f.ann, models.ReportDraft{OfficerID: f.otto.ID, Message: "hot"})
	require.NoError(t, err)

	_, err = f.svc.AddRecommendation(ctx, f.olga, models.RecommendationDraft{BeekeeperID: f.ann.ID})
	assert.Equal(t, errors.CodeMissingFields, errors.CodeOf(err))

	_, err = f.svc.AddRecommendation(ctx, f.olga, models.RecommendationDraft{BeekeeperID: f.otto.ID, Message: "x"})
	assert.Equal(t, errors.CodeAccountNotFound, errors.CodeOf(err))

	// report addressed to another officer
	_, err = f.svc.AddRecommendation(ctx, f.olga, models.RecommendationDraft{BeekeeperID: f.ann.ID, ReportID: &ottoReport.ID, Message: "x"})
	assert.Equal(t, errors.CodeNotFoundOrUnauthorized, errors.CodeOf(err))

	// report from a different beekeeper
	_, err = f.svc.AddRecommendation(ctx, f.olga, models.RecommendationDraft{BeekeeperID: f.ben.ID, ReportID: &annReport.ID, Message: "x"})
	assert.Equal(t, errors.CodeNotFoundOrUnauthorized, errors.CodeOf(err))

	// reading of another beekeeper's hive
	_, err = f.svc.AddRecommendation(ctx, f.olga, models.RecommendationDraft{BeekeeperID: f.ann.ID, ReadingID: &benReading.Reading.ID, Message: "x"})
	assert.Equal(t, errors.CodeNotFoundOrUnauthorized, errors.CodeOf(err))

	rec, err := f.svc.AddRecommendation(ctx, f.olga, models.RecommendationDraft{
		BeekeeperID:       f.ann.ID,
		ReportID:          &annReport.ID,
		ReadingID:         &annReading.Reading.ID,
		Message:           "ventilate",
		RelatedSensorData: "41C at noon",
	})
	require.NoError(t, err)

	received, err := f.svc.ListReceivedRecommendations(ctx, f.ann)
	require.NoError(t, err)
	require.Len(t, received, 1)
	assert.Equal(t, "Olga", received[0].OfficerName)
	require.NotNil(t, received[0].Temperature)
	assert.Equal(t, 41.0, *received[0].Temperature)

	benReceived, err := f.svc.ListReceivedRecommendations(ctx, f.ben)
	require.NoError(t, err)
	assert.Empty(t, benReceived)

	reports, err := f.svc.ListReceivedReports(ctx, f.olga)
	require.NoError(t, err)
	require.Len(t, reports, 1)
	require.Len(t, reports[0].Recommendations, 1)
	assert.Equal(t, rec.ID, reports[0].Recommendations[0].ID)

	_, err = f.svc.UpdateRecommendation(ctx, f.otto, rec.ID, models.RecommendationDraft{Message: "mine"})
	assert.Equal(t, errors.CodeNotFoundOrUnauthorized, errors.CodeOf(err))
	updated, err := f.svc.UpdateRecommendation(ctx, f.olga, rec.ID, models.RecommendationDraft{Message: "ventilate now"})
	require.NoError(t, err)
	assert.Equal(t, "ventilate now", updated.Message)
	require.NotNil(t, updated.ReportID)
}

func TestReaddressedReportHidesPreviousAdvice(t *testing.T) {
	f := newWorkflowFixture(t)
	ctx := context.Background()

	rp, err := f.svc.SendReport(ctx, f.ann, models.ReportDraft{OfficerID: f.olga.ID, Message: "brood looks patchy"})
	require.NoError(t, err)
	_, err = f.svc.AddRecommendation(ctx, f.olga, models.RecommendationDraft{
		BeekeeperID:       f.ann.ID,
		ReportID:          &rp.ID,
		Message:           "requeen before autumn",
		RelatedSensorData: "38C peak",
	})
	require.NoError(t, err)

	_, err = f.svc.UpdateReport(ctx, f.ann, rp.ID, models.ReportDraft{OfficerID: f.otto.ID, Message: "second opinion please"})
	require.NoError(t, err)

	received, err := f.svc.ListReceivedReports(ctx, f.otto)
	require.NoError(t, err)
	require.Len(t, received, 1)
	assert.Empty(t, received[0].Recommendations)

	own, err := f.svc.AddRecommendation(ctx, f.otto, models.RecommendationDraft{BeekeeperID: f.ann.ID, ReportID: &rp.ID, Message: "add ventilation"})
	require.NoError(t, err)
	received, err = f.svc.ListReceivedReports(ctx, f.otto)
	require.NoError(t, err)
	require.Len(t, received[0].Recommendations, 1)
	assert.Equal(t, own.ID, received[0].Recommendations[0].ID)
	assert.Equal(t, f.otto.ID, received[0].Recommendations[0].OfficerID)

	// the author still sees her own advice on the beekeeper side
	sent, err := f.svc.ListSentRecommendations(ctx, f.olga)
	require.NoError(t, err)
	assert.Len(t, sent, 1)
}
