package services

import (
	"context"
	"time"

	"github.com/gikai-lab/minutes-engine/pkg/apperrors"
	"github.com/gikai-lab/minutes-engine/pkg/models"
	"github.com/gikai-lab/minutes-engine/pkg/repositories"
)

// fakeTx runs the function without a real transaction and records
// whether the batch would have committed or rolled back.
type fakeTx struct {
	calls     int
	commits   int
	rollbacks int
}

func (f *fakeTx) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	f.calls++
	if err := fn(ctx); err != nil {
		f.rollbacks++
		return err
	}
	f.commits++
	return nil
}

// mockCandidateRepo implements repositories.CandidateRepository in memory.
type mockCandidateRepo struct {
	candidates []*models.ExtractionCandidate
	nextID     int64

	createErr error
	getErr    error
	updateErr error
	// updateErrAfter fails UpdateResolution once this many calls succeeded
	updateErrAfter int
	updateCalls    int
}

func (m *mockCandidateRepo) add(c *models.ExtractionCandidate) *models.ExtractionCandidate {
	m.nextID++
	c.ID = m.nextID
	if c.MatchingStatus == "" {
		c.MatchingStatus = models.MatchingStatusPending
	}
	m.candidates = append(m.candidates, c)
	return c
}

func (m *mockCandidateRepo) Create(_ context.Context, c *models.ExtractionCandidate) error {
	if m.createErr != nil {
		return m.createErr
	}
	c.MatchingStatus = models.MatchingStatusPending
	m.add(c)
	return nil
}

func (m *mockCandidateRepo) BulkCreate(ctx context.Context, candidates []*models.ExtractionCandidate) error {
	for _, c := range candidates {
		if err := m.Create(ctx, c); err != nil {
			return err
		}
	}
	return nil
}

func (m *mockCandidateRepo) GetByID(_ context.Context, id int64) (*models.ExtractionCandidate, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	for _, c := range m.candidates {
		if c.ID == id {
			copied := *c
			return &copied, nil
		}
	}
	return nil, apperrors.NotFoundf("candidate %d not found", id)
}

func (m *mockCandidateRepo) GetByContext(_ context.Context, kind models.CandidateKind, contextID int64) ([]*models.ExtractionCandidate, error) {
	var out []*models.ExtractionCandidate
	for _, c := range m.candidates {
		if c.Kind == kind && c.ContextID == contextID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *mockCandidateRepo) GetPending(_ context.Context, kind models.CandidateKind, contextID *int64) ([]*models.ExtractionCandidate, error) {
	var out []*models.ExtractionCandidate
	for _, c := range m.candidates {
		if c.Kind != kind || c.MatchingStatus != models.MatchingStatusPending {
			continue
		}
		if contextID != nil && c.ContextID != *contextID {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func (m *mockCandidateRepo) GetMatched(_ context.Context, kind models.CandidateKind, contextID *int64, minConfidence *float64) ([]*models.ExtractionCandidate, error) {
	var out []*models.ExtractionCandidate
	for _, c := range m.candidates {
		if c.Kind != kind || c.MatchingStatus != models.MatchingStatusMatched {
			continue
		}
		if contextID != nil && c.ContextID != *contextID {
			continue
		}
		if minConfidence != nil && (c.Confidence == nil || *c.Confidence < *minConfidence) {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func (m *mockCandidateRepo) UpdateResolution(_ context.Context, id int64, res repositories.Resolution) error {
	m.updateCalls++
	if m.updateErr != nil && m.updateCalls > m.updateErrAfter {
		return m.updateErr
	}
	for _, c := range m.candidates {
		if c.ID != id {
			continue
		}
		c.MatchedPoliticianID = res.PoliticianID
		c.MatchedGroupID = res.GroupID
		c.Confidence = res.Confidence
		c.MatchingStatus = res.Status
		if res.Status == models.MatchingStatusMatched {
			now := time.Now()
			c.MatchedAt = &now
		}
		return nil
	}
	return apperrors.NotFoundf("candidate %d not found", id)
}

func (m *mockCandidateRepo) Delete(_ context.Context, id int64) error {
	for i, c := range m.candidates {
		if c.ID == id {
			m.candidates = append(m.candidates[:i], m.candidates[i+1:]...)
			return nil
		}
	}
	return apperrors.NotFoundf("candidate %d not found", id)
}

// mockPoliticianRepo implements repositories.PoliticianRepository in memory.
// Lookup is by the already-normalized name.
type mockPoliticianRepo struct {
	politicians []*models.Politician
	findErr     error
}

func (m *mockPoliticianRepo) Create(_ context.Context, p *models.Politician) error {
	p.ID = int64(len(m.politicians) + 1)
	m.politicians = append(m.politicians, p)
	return nil
}

func (m *mockPoliticianRepo) GetByID(_ context.Context, id int64) (*models.Politician, error) {
	for _, p := range m.politicians {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, nil
}

func (m *mockPoliticianRepo) FindByName(_ context.Context, name string) ([]*models.Politician, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	var out []*models.Politician
	for _, p := range m.politicians {
		if p.Name == name {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *mockPoliticianRepo) List(_ context.Context) ([]*models.Politician, error) {
	return m.politicians, nil
}

// mockGroupRepo implements repositories.ParliamentaryGroupRepository.
type mockGroupRepo struct {
	groups []*models.ParliamentaryGroup
}

func (m *mockGroupRepo) Create(_ context.Context, g *models.ParliamentaryGroup) error {
	g.ID = int64(len(m.groups) + 1)
	m.groups = append(m.groups, g)
	return nil
}

func (m *mockGroupRepo) GetByID(_ context.Context, id int64) (*models.ParliamentaryGroup, error) {
	for _, g := range m.groups {
		if g.ID == id {
			return g, nil
		}
	}
	return nil, nil
}

// mockJudgeRepo implements repositories.ProposalJudgeRepository in memory.
type mockJudgeRepo struct {
	judges    []*models.ProposalJudge
	createErr error
}

func (m *mockJudgeRepo) Create(_ context.Context, j *models.ProposalJudge) error {
	if m.createErr != nil {
		return m.createErr
	}
	j.ID = int64(len(m.judges) + 1)
	j.CreatedAt = time.Now()
	m.judges = append(m.judges, j)
	return nil
}

func (m *mockJudgeRepo) Exists(_ context.Context, proposalID, politicianID int64) (bool, error) {
	for _, j := range m.judges {
		if j.ProposalID == proposalID && j.PoliticianID == politicianID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockJudgeRepo) GetByProposal(_ context.Context, proposalID int64) ([]*models.ProposalJudge, error) {
	var out []*models.ProposalJudge
	for _, j := range m.judges {
		if j.ProposalID == proposalID {
			out = append(out, j)
		}
	}
	return out, nil
}

// mockAffiliationRepo implements repositories.PoliticianAffiliationRepository.
type mockAffiliationRepo struct {
	affiliations []*models.PoliticianAffiliation
}

func (m *mockAffiliationRepo) Create(_ context.Context, a *models.PoliticianAffiliation) error {
	a.ID = int64(len(m.affiliations) + 1)
	a.CreatedAt = time.Now()
	m.affiliations = append(m.affiliations, a)
	return nil
}

func (m *mockAffiliationRepo) GetByConferenceAndPolitician(_ context.Context, conferenceID, politicianID int64) ([]*models.PoliticianAffiliation, error) {
	var out []*models.PoliticianAffiliation
	for _, a := range m.affiliations {
		if a.ConferenceID == conferenceID && a.PoliticianID == politicianID {
			out = append(out, a)
		}
	}
	return out, nil
}

// mockMembershipRepo implements repositories.GroupMembershipRepository.
type mockMembershipRepo struct {
	memberships []*models.GroupMembership
}

func (m *mockMembershipRepo) Create(_ context.Context, gm *models.GroupMembership) error {
	gm.ID = int64(len(m.memberships) + 1)
	gm.CreatedAt = time.Now()
	m.memberships = append(m.memberships, gm)
	return nil
}

func (m *mockMembershipRepo) GetByGroupAndPolitician(_ context.Context, groupID, politicianID int64) ([]*models.GroupMembership, error) {
	var out []*models.GroupMembership
	for _, gm := range m.memberships {
		if gm.GroupID == groupID && gm.PoliticianID == politicianID {
			out = append(out, gm)
		}
	}
	return out, nil
}

// mockMeetingRepo implements repositories.MeetingRepository.
type mockMeetingRepo struct {
	meetings []*models.Meeting
}

func (m *mockMeetingRepo) Create(_ context.Context, meeting *models.Meeting) error {
	meeting.ID = int64(len(m.meetings) + 1)
	m.meetings = append(m.meetings, meeting)
	return nil
}

func (m *mockMeetingRepo) GetByID(_ context.Context, id int64) (*models.Meeting, error) {
	for _, meeting := range m.meetings {
		if meeting.ID == id {
			return meeting, nil
		}
	}
	return nil, nil
}

// mockMinutesRepo implements repositories.MinutesRepository.
type mockMinutesRepo struct {
	minutes   []*models.Minutes
	createErr error
}

func (m *mockMinutesRepo) Create(_ context.Context, minutes *models.Minutes) error {
	if m.createErr != nil {
		return m.createErr
	}
	minutes.ID = int64(len(m.minutes) + 1)
	minutes.CreatedAt = time.Now()
	m.minutes = append(m.minutes, minutes)
	return nil
}

func (m *mockMinutesRepo) GetByMeetingID(_ context.Context, meetingID int64) (*models.Minutes, error) {
	for _, minutes := range m.minutes {
		if minutes.MeetingID == meetingID {
			return minutes, nil
		}
	}
	return nil, nil
}

func (m *mockMinutesRepo) MarkProcessed(_ context.Context, id int64, processedAt time.Time) error {
	for _, minutes := range m.minutes {
		if minutes.ID == id {
			minutes.ProcessedAt = &processedAt
			return nil
		}
	}
	return apperrors.NotFoundf("minutes %d not found", id)
}

// mockConversationRepo implements repositories.ConversationRepository.
type mockConversationRepo struct {
	conversations []*models.Conversation
	nextID        int64

	// createErrAt fails BulkCreate on the i-th (1-based) row of the batch
	createErrAt int
	createErr   error
}

func (m *mockConversationRepo) BulkCreate(_ context.Context, conversations []*models.Conversation) error {
	for i, c := range conversations {
		if m.createErr != nil && i+1 >= m.createErrAt {
			return m.createErr
		}
		m.nextID++
		c.ID = m.nextID
		c.CreatedAt = time.Now()
		m.conversations = append(m.conversations, c)
	}
	return nil
}

func (m *mockConversationRepo) GetByMinutes(_ context.Context, minutesID int64) ([]*models.Conversation, error) {
	var out []*models.Conversation
	for _, c := range m.conversations {
		if c.MinutesID == minutesID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *mockConversationRepo) CountByMinutes(ctx context.Context, minutesID int64) (int, error) {
	out, _ := m.GetByMinutes(ctx, minutesID)
	return len(out), nil
}

func (m *mockConversationRepo) DeleteByMinutes(_ context.Context, minutesID int64) error {
	var kept []*models.Conversation
	for _, c := range m.conversations {
		if c.MinutesID != minutesID {
			kept = append(kept, c)
		}
	}
	m.conversations = kept
	return nil
}

// mockSpeakerRepo implements repositories.SpeakerRepository.
type mockSpeakerRepo struct {
	speakers  []*models.Speaker
	createErr error
	// createErrAt fails Create on the i-th (1-based) call
	createErrAt int
	createCalls int
}

func (m *mockSpeakerRepo) Create(_ context.Context, s *models.Speaker) error {
	m.createCalls++
	if m.createErr != nil && m.createCalls >= m.createErrAt {
		return m.createErr
	}
	s.ID = int64(len(m.speakers) + 1)
	s.CreatedAt = time.Now()
	m.speakers = append(m.speakers, s)
	return nil
}

func (m *mockSpeakerRepo) FindByNamePartyPosition(_ context.Context, name string, party, position *string) (*models.Speaker, error) {
	for _, s := range m.speakers {
		if s.Name == name && strPtrEq(s.Party, party) && strPtrEq(s.Position, position) {
			return s, nil
		}
	}
	return nil, nil
}

func strPtrEq(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func ptr[T any](v T) *T { return &v }
