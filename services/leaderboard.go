package services

import (
	"context"
	"fmt"
	"time"

	"habit-tracking-system/models"
	"habit-tracking-system/utils"

	"gorm.io/gorm"
)

const (
	// RankStatusAvailable / RankStatusNoLocation: "no_location" is not
	// an error — the nearby cohort simply could not be formed and the
	// client renders a call-to-action instead of a leaderboard.
	RankStatusAvailable  = "available"
	RankStatusNoLocation = "no_location"

	StandardTopN    = 20 // head of the standard view
	AroundMeWindow  = 3  // ± positions around the requester
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// LeaderboardRequest mirrors the query surface of GET /s/leaderboard.
type LeaderboardRequest struct {
	Scope    string  // "friends" (default) or "nearby"
	Period   string  // "week" (default) or "month"
	RadiusKm float64 // nearby only
	View     string  // "standard" (default) or "all"
	Page     int
	PageSize int
}

// Participant is one row of the ranked cohort, enriched with
// day/week/month point sums and a goals-met count for client display.
type Participant struct {
	UserID      string  `json:"user_id"`
	Username    string  `json:"username"`
	DisplayName *string `json:"display_name,omitempty"`
	AvatarURL   *string `json:"avatar_url,omitempty"`

	Rank       int     `json:"rank"`
	Score      int64   `json:"score"`
	Percentile float64 `json:"percentile"`

	PointsToday int64 `json:"points_today"`
	PointsWeek  int64 `json:"points_week"`
	PointsMonth int64 `json:"points_month"`
	GoalsMet    int64 `json:"goals_met"`
}

// OverallRank is the requester's own standing.
type OverallRank struct {
	Rank       int     `json:"rank"`
	Score      int64   `json:"score"`
	CohortSize int     `json:"cohort_size"`
	Percentile float64 `json:"percentile"`
	RankStatus string  `json:"rank_status"`
}

// ChallengeRank is the requester's standing within one habit category.
type ChallengeRank struct {
	Category   string  `json:"category"`
	Rank       int     `json:"rank"`
	Score      int64   `json:"score"`
	Percentile float64 `json:"percentile"`
}

// StandardView: top-N plus a window around the requester, de-duplicated.
type StandardView struct {
	Top      []Participant `json:"top"`
	AroundMe []Participant `json:"around_me"`
}

// PageView: full cohort ranking, paginated.
type PageView struct {
	Items      []Participant `json:"items"`
	Page       int           `json:"page"`
	PageSize   int           `json:"page_size"`
	TotalItems int           `json:"total_items"`
	TotalPages int           `json:"total_pages"`
	HasNext    bool          `json:"has_next"`
}

// LeaderboardData is the full response; exactly one of the two
// participant views is set, per the requested view.
type LeaderboardData struct {
	Overall              OverallRank     `json:"overall"`
	ChallengeRanks       []ChallengeRank `json:"challenge_ranks"`
	ParticipantsStandard *StandardView   `json:"participants_standard,omitempty"`
	ParticipantsPage     *PageView       `json:"participants_page,omitempty"`
}

// LeaderboardService turns a cohort plus ledger aggregates into a
// ranked, assembled response.
type LeaderboardService struct {
	DB      *gorm.DB
	Cohorts *CohortService
	Loc     *time.Location
}

func NewLeaderboardService(db *gorm.DB, cohorts *CohortService) *LeaderboardService {
	return &LeaderboardService{DB: db, Cohorts: cohorts, Loc: time.UTC}
}

// GetLeaderboard builds the full response for one ranking request.
// Any failed aggregate query fails the whole request — no partial
// leaderboard is ever returned.
func (s *LeaderboardService) GetLeaderboard(ctx context.Context, userID string, req LeaderboardRequest) (*LeaderboardData, error) {
	now := time.Now()

	var startDay, endDay string
	if req.Period == "month" {
		startDay, endDay = utils.MonthRange(now, s.Loc)
	} else {
		startDay, endDay = utils.WeekRange(now, s.Loc)
	}

	var cohort *Cohort
	var err error
	rankStatus := RankStatusAvailable
	if req.Scope == "nearby" {
		cohort, err = s.Cohorts.NearbyCohort(ctx, userID, req.RadiusKm)
		if err == nil && !cohort.UserHasLocation {
			rankStatus = RankStatusNoLocation
		}
	} else {
		cohort, err = s.Cohorts.FriendsCohort(ctx, userID)
	}
	if err != nil {
		return nil, fmt.Errorf("resolve cohort: %w", err)
	}

	scores, err := s.sumPoints(ctx, cohort.UserIDs, startDay, endDay)
	if err != nil {
		return nil, fmt.Errorf("sum cohort points: %w", err)
	}
	zeroFill(scores, cohort.UserIDs)
	ranked := RankScores(scores)
	cohortSize := len(cohort.UserIDs)

	// Independent enrichment aggregates over the same cohort.
	today := utils.DayKey(now, s.Loc)
	weekStart, weekEnd := utils.WeekRange(now, s.Loc)
	monthStart, monthEnd := utils.MonthRange(now, s.Loc)

	dailySums, err := s.sumPoints(ctx, cohort.UserIDs, today, today)
	if err != nil {
		return nil, err
	}
	weekSums, err := s.sumPoints(ctx, cohort.UserIDs, weekStart, weekEnd)
	if err != nil {
		return nil, err
	}
	monthSums, err := s.sumPoints(ctx, cohort.UserIDs, monthStart, monthEnd)
	if err != nil {
		return nil, err
	}
	metCounts, err := s.countGoalsMet(ctx, cohort.UserIDs, startDay, endDay)
	if err != nil {
		return nil, err
	}
	profiles, err := s.loadProfiles(ctx, cohort.UserIDs)
	if err != nil {
		return nil, err
	}

	participants := make([]Participant, 0, len(ranked))
	myIndex := -1
	overall := OverallRank{CohortSize: cohortSize, RankStatus: rankStatus}
	for i, e := range ranked {
		p := Participant{
			UserID:      e.UserID,
			Rank:        e.Rank,
			Score:       e.Score,
			Percentile:  Percentile(e.Rank, cohortSize),
			PointsToday: dailySums[e.UserID],
			PointsWeek:  weekSums[e.UserID],
			PointsMonth: monthSums[e.UserID],
			GoalsMet:    metCounts[e.UserID],
		}
		if prof, ok := profiles[e.UserID]; ok {
			p.Username = prof.Username
			p.DisplayName = prof.DisplayName
			p.AvatarURL = prof.ProfilePictureURL
		}
		participants = append(participants, p)
		if e.UserID == userID {
			myIndex = i
			overall.Rank = e.Rank
			overall.Score = e.Score
			overall.Percentile = p.Percentile
		}
	}

	challengeRanks, err := s.challengeRanks(ctx, userID, cohort.UserIDs, startDay, endDay, cohortSize)
	if err != nil {
		return nil, fmt.Errorf("category ranks: %w", err)
	}

	data := &LeaderboardData{
		Overall:        overall,
		ChallengeRanks: challengeRanks,
	}
	if req.View == "all" {
		pv := paginateParticipants(participants, req.Page, req.PageSize)
		data.ParticipantsPage = &pv
	} else {
		sv := standardView(participants, myIndex)
		data.ParticipantsStandard = &sv
	}
	return data, nil
}

// challengeRanks reruns the same ranking per habit category the
// requester tracks, zero-filling cohort members absent from that
// category's score rows.
func (s *LeaderboardService) challengeRanks(ctx context.Context, userID string, cohortIDs []string, startDay, endDay string, cohortSize int) ([]ChallengeRank, error) {
	var categories []string
	if err := s.DB.WithContext(ctx).Model(&models.Trackable{}).
		Distinct("category").
		Where("external_user_id = ? AND is_active = ?", userID, true).
		Order("category").
		Pluck("category", &categories).Error; err != nil {
		return nil, err
	}

	out := make([]ChallengeRank, 0, len(categories))
	for _, cat := range categories {
		scores, err := s.sumCategoryPoints(ctx, cohortIDs, cat, startDay, endDay)
		if err != nil {
			return nil, err
		}
		zeroFill(scores, cohortIDs)
		for _, e := range RankScores(scores) {
			if e.UserID != userID {
				continue
			}
			out = append(out, ChallengeRank{
				Category:   cat,
				Rank:       e.Rank,
				Score:      e.Score,
				Percentile: Percentile(e.Rank, cohortSize),
			})
			break
		}
	}
	return out, nil
}

type userSum struct {
	ExternalUserID string
	Total          int64
}

func (s *LeaderboardService) sumPoints(ctx context.Context, ids []string, startDay, endDay string) (map[string]int64, error) {
	var rows []userSum
	err := s.DB.WithContext(ctx).Model(&models.PointsLedgerEntry{}).
		Select("external_user_id, COALESCE(SUM(points), 0) AS total").
		Where("external_user_id IN ? AND day BETWEEN ? AND ?", ids, startDay, endDay).
		Group("external_user_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(rows))
	for _, r := range rows {
		out[r.ExternalUserID] = r.Total
	}
	return out, nil
}

func (s *LeaderboardService) sumCategoryPoints(ctx context.Context, ids []string, category, startDay, endDay string) (map[string]int64, error) {
	var rows []userSum
	err := s.DB.WithContext(ctx).Model(&models.PointsLedgerEntry{}).
		Select("points_ledger_entries.external_user_id, COALESCE(SUM(points_ledger_entries.points), 0) AS total").
		Joins("JOIN trackables ON trackables.id = points_ledger_entries.trackable_id").
		Where("points_ledger_entries.external_user_id IN ? AND points_ledger_entries.day BETWEEN ? AND ? AND trackables.category = ?",
			ids, startDay, endDay, category).
		Group("points_ledger_entries.external_user_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(rows))
	for _, r := range rows {
		out[r.ExternalUserID] = r.Total
	}
	return out, nil
}

func (s *LeaderboardService) countGoalsMet(ctx context.Context, ids []string, startDay, endDay string) (map[string]int64, error) {
	var rows []userSum
	err := s.DB.WithContext(ctx).Model(&models.DailyOutcome{}).
		Select("external_user_id, COUNT(*) AS total").
		Where("external_user_id IN ? AND met_goal = ? AND day BETWEEN ? AND ?", ids, true, startDay, endDay).
		Group("external_user_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(rows))
	for _, r := range rows {
		out[r.ExternalUserID] = r.Total
	}
	return out, nil
}

func (s *LeaderboardService) loadProfiles(ctx context.Context, ids []string) (map[string]models.TrackerUser, error) {
	var users []models.TrackerUser
	if err := s.DB.WithContext(ctx).
		Where("external_user_id IN ?", ids).
		Find(&users).Error; err != nil {
		return nil, err
	}
	out := make(map[string]models.TrackerUser, len(users))
	for _, u := range users {
		out[u.ExternalUserID] = u
	}
	return out, nil
}

func zeroFill(scores map[string]int64, ids []string) {
	for _, id := range ids {
		if _, ok := scores[id]; !ok {
			scores[id] = 0
		}
	}
}

// standardView slices the ranked list into top-N plus a ±window around
// the requester. Window entries already shown in the top block are
// dropped, so no user id ever appears twice across the two sets.
func standardView(all []Participant, myIndex int) StandardView {
	top := all
	if len(top) > StandardTopN {
		top = top[:StandardTopN]
	}
	sv := StandardView{Top: append([]Participant(nil), top...), AroundMe: []Participant{}}

	if myIndex < 0 {
		return sv
	}
	lo := myIndex - AroundMeWindow
	if lo < 0 {
		lo = 0
	}
	hi := myIndex + AroundMeWindow
	if hi > len(all)-1 {
		hi = len(all) - 1
	}
	for i := lo; i <= hi; i++ {
		if i < len(sv.Top) {
			continue // already in the top block
		}
		sv.AroundMe = append(sv.AroundMe, all[i])
	}
	return sv
}

// paginateParticipants clamps the requested page into [1, totalPages]
// rather than erroring on an out-of-range page.
func paginateParticipants(all []Participant, page, pageSize int) PageView {
	if pageSize < 1 || pageSize > MaxPageSize {
		pageSize = DefaultPageSize
	}
	totalItems := len(all)
	totalPages := (totalItems + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * pageSize
	end := start + pageSize
	if start > totalItems {
		start = totalItems
	}
	if end > totalItems {
		end = totalItems
	}

	return PageView{
		Items:      append([]Participant{}, all[start:end]...),
		Page:       page,
		PageSize:   pageSize,
		TotalItems: totalItems,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
	}
}
