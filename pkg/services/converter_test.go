package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/gikai-lab/minutes-engine/pkg/apperrors"
	"github.com/gikai-lab/minutes-engine/pkg/models"
)

type converterFixture struct {
	candidates   *mockCandidateRepo
	judges       *mockJudgeRepo
	affiliations *mockAffiliationRepo
	memberships  *mockMembershipRepo
	groups       *mockGroupRepo
	converter    Converter
}

func newConverterFixture() *converterFixture {
	f := &converterFixture{
		candidates:   &mockCandidateRepo{},
		judges:       &mockJudgeRepo{},
		affiliations: &mockAffiliationRepo{},
		memberships:  &mockMembershipRepo{},
		groups:       &mockGroupRepo{},
	}
	f.converter = NewConverter(f.candidates, f.judges, f.affiliations, f.memberships, f.groups, nil, zap.NewNop())
	return f
}

func (f *converterFixture) addMatched(kind models.CandidateKind, contextID, politicianID int64, role *string) *models.ExtractionCandidate {
	return f.candidates.add(&models.ExtractionCandidate{
		Kind:                kind,
		ContextID:           contextID,
		Name:                "候補者",
		Role:                role,
		MatchedPoliticianID: &politicianID,
		Confidence:          ptr(1.0),
		MatchingStatus:      models.MatchingStatusMatched,
	})
}

func TestConvertJudges_CreatesRecords(t *testing.T) {
	f := newConverterFixture()
	f.addMatched(models.CandidateKindProposalJudge, 5, 10, ptr("approve"))
	f.addMatched(models.CandidateKindProposalJudge, 5, 11, ptr("oppose"))

	result, err := f.converter.ConvertJudges(context.Background(), 5)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Created)
	assert.Equal(t, 0, result.Skipped)
	assert.Equal(t, 0, result.Failed)
	assert.Len(t, result.CreatedRecords, 2)

	judges, err := f.judges.GetByProposal(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, judges, 2)
	assert.Equal(t, int64(10), judges[0].PoliticianID)
	require.NotNil(t, judges[0].Judgment)
	assert.Equal(t, models.JudgmentApprove, *judges[0].Judgment)
}

func TestConvertJudges_SecondRunSkipsEverything(t *testing.T) {
	f := newConverterFixture()
	f.addMatched(models.CandidateKindProposalJudge, 5, 10, ptr("approve"))
	f.addMatched(models.CandidateKindProposalJudge, 5, 11, ptr("oppose"))

	ctx := context.Background()
	first, err := f.converter.ConvertJudges(ctx, 5)
	require.NoError(t, err)
	require.Equal(t, 2, first.Created)

	second, err := f.converter.ConvertJudges(ctx, 5)
	require.NoError(t, err)

	assert.Equal(t, 0, second.Created)
	assert.Equal(t, 2, second.Skipped)
	assert.Equal(t, 0, second.Failed)

	judges, err := f.judges.GetByProposal(ctx, 5)
	require.NoError(t, err)
	assert.Len(t, judges, 2, "re-run must not duplicate records")
}

func TestConvertJudges_CandidatesRetainedAfterConversion(t *testing.T) {
	f := newConverterFixture()
	c := f.addMatched(models.CandidateKindProposalJudge, 5, 10, nil)

	_, err := f.converter.ConvertJudges(context.Background(), 5)
	require.NoError(t, err)

	got, err := f.candidates.GetByID(context.Background(), c.ID)
	require.NoError(t, err)
	assert.Equal(t, models.MatchingStatusMatched, got.MatchingStatus)
}

func TestConvertJudges_UnknownJudgmentFailsItem(t *testing.T) {
	f := newConverterFixture()
	f.addMatched(models.CandidateKindProposalJudge, 5, 10, ptr("maybe"))
	f.addMatched(models.CandidateKindProposalJudge, 5, 11, ptr("approve"))

	result, err := f.converter.ConvertJudges(context.Background(), 5)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Created)
	assert.Equal(t, 1, result.Failed)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "unknown judgment")
}

func TestConvertAffiliations_SkipsTemporalOverlap(t *testing.T) {
	f := newConverterFixture()
	ctx := context.Background()

	// Existing open-ended affiliation since 2022 for politician 10 on
	// conference 1.
	require.NoError(t, f.affiliations.Create(ctx, &models.PoliticianAffiliation{
		ConferenceID: 1,
		PoliticianID: 10,
		StartDate:    time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC),
	}))

	f.addMatched(models.CandidateKindConferenceMember, 1, 10, nil)
	f.addMatched(models.CandidateKindConferenceMember, 1, 11, nil)

	result, err := f.converter.ConvertAffiliations(ctx, 1,
		time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), nil)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Created, "politician 11 has no overlap")
	assert.Equal(t, 1, result.Skipped, "politician 10 overlaps the open-ended range")
	assert.Equal(t, 0, result.Failed)
}

func TestConvertAffiliations_DisjointRangesBothCreated(t *testing.T) {
	f := newConverterFixture()
	ctx := context.Background()

	end := time.Date(2021, 12, 31, 0, 0, 0, 0, time.UTC)
	require.NoError(t, f.affiliations.Create(ctx, &models.PoliticianAffiliation{
		ConferenceID: 1,
		PoliticianID: 10,
		StartDate:    time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:      &end,
	}))

	f.addMatched(models.CandidateKindConferenceMember, 1, 10, nil)

	result, err := f.converter.ConvertAffiliations(ctx, 1,
		time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), nil)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Created, "closed past range does not block a later one")
	assert.Equal(t, 0, result.Skipped)
}

func TestConvertMemberships_GroupMustExist(t *testing.T) {
	f := newConverterFixture()

	_, err := f.converter.ConvertMemberships(context.Background(), 99,
		time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), nil)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestConvertMemberships_CreatesAndSkips(t *testing.T) {
	f := newConverterFixture()
	ctx := context.Background()
	require.NoError(t, f.groups.Create(ctx, &models.ParliamentaryGroup{Name: "市民クラブ"}))

	require.NoError(t, f.memberships.Create(ctx, &models.GroupMembership{
		GroupID:      1,
		PoliticianID: 10,
		StartDate:    time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC),
	}))

	f.addMatched(models.CandidateKindGroupMember, 1, 10, nil)
	f.addMatched(models.CandidateKindGroupMember, 1, 12, ptr("会長"))

	result, err := f.converter.ConvertMemberships(ctx, 1,
		time.Date(2023, 4, 1, 0, 0, 0, 0, time.UTC), nil)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Created)
	assert.Equal(t, 1, result.Skipped)

	created, err := f.memberships.GetByGroupAndPolitician(ctx, 1, 12)
	require.NoError(t, err)
	require.Len(t, created, 1)
	require.NotNil(t, created[0].Role)
	assert.Equal(t, "会長", *created[0].Role)
}

func TestConvertOne_BuildsWithoutPersisting(t *testing.T) {
	f := newConverterFixture()
	c := f.addMatched(models.CandidateKindProposalJudge, 5, 10, ptr("abstain"))

	record, err := f.converter.ConvertOne(context.Background(), c.ID, time.Time{}, nil)
	require.NoError(t, err)

	require.NotNil(t, record.Judge)
	assert.Equal(t, int64(5), record.Judge.ProposalID)
	assert.Equal(t, int64(10), record.Judge.PoliticianID)
	require.NotNil(t, record.Judge.Judgment)
	assert.Equal(t, models.JudgmentAbstain, *record.Judge.Judgment)

	judges, err := f.judges.GetByProposal(context.Background(), 5)
	require.NoError(t, err)
	assert.Empty(t, judges)
}

func TestConvertOne_UnmatchedCandidate(t *testing.T) {
	f := newConverterFixture()
	c := f.candidates.add(&models.ExtractionCandidate{
		Kind:           models.CandidateKindProposalJudge,
		ContextID:      5,
		Name:           "未確定",
		MatchingStatus: models.MatchingStatusNeedsReview,
	})

	_, err := f.converter.ConvertOne(context.Background(), c.ID, time.Time{}, nil)
	require.ErrorIs(t, err, apperrors.ErrInvalidState)
	assert.Contains(t, err.Error(), "cannot convert unmatched candidate")
}
