package service

import (
	"advokit/case-app/internal/domain"
	"advokit/case-app/internal/repository"
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DashboardStats is the headline counters for the home screen.
type DashboardStats struct {
	Total     int64 `json:"total"`
	Active    int64 `json:"active"`
	ThisWeek  int64 `json:"thisWeek"`
	Pending   int64 `json:"pending"`
	Hearing   int64 `json:"hearing"`
	Completed int64 `json:"completed"`
}

// MonthlyMetrics summarises the current calendar month.
type MonthlyMetrics struct {
	CasesWon int64 `json:"casesWon"`
	Hearings int64 `json:"hearings"`
	Pending  int64 `json:"pending"`
}

// ActivityItem is one entry of the recent-activity feed.
type ActivityItem struct {
	ID        primitive.ObjectID `json:"id"`
	Title     string             `json:"title"`
	Action    string             `json:"action"`
	Timestamp time.Time          `json:"timestamp"`
	Type      domain.Status      `json:"type"`
}

// DashboardService derives read-only summaries from the case collection.
type DashboardService interface {
	Stats(ctx context.Context, ownerID primitive.ObjectID) (*DashboardStats, error)
	UpcomingHearings(ctx context.Context, ownerID primitive.ObjectID) ([]domain.Case, error)
	RecentActivity(ctx context.Context, ownerID primitive.ObjectID) ([]ActivityItem, error)
	Metrics(ctx context.Context, ownerID primitive.ObjectID) (*MonthlyMetrics, error)
}

type dashboardService struct {
	caseRepo repository.CaseRepository
}

// NewDashboardService creates a new instance of dashboardService.
func NewDashboardService(caseRepo repository.CaseRepository) DashboardService {
	return &dashboardService{caseRepo: caseRepo}
}

// Stats returns case counters for the owner.
func (s *dashboardService) Stats(ctx context.Context, ownerID primitive.ObjectID) (*DashboardStats, error) {
	total, err := s.caseRepo.CountByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	active, err := s.caseRepo.CountByStatus(ctx, ownerID, domain.StatusPending, domain.StatusHearing)
	if err != nil {
		return nil, err
	}
	oneWeekAgo := time.Now().UTC().AddDate(0, 0, -7)
	thisWeek, err := s.caseRepo.CountCreatedSince(ctx, ownerID, oneWeekAgo)
	if err != nil {
		return nil, err
	}
	pending, err := s.caseRepo.CountByStatus(ctx, ownerID, domain.StatusPending)
	if err != nil {
		return nil, err
	}
	hearing, err := s.caseRepo.CountByStatus(ctx, ownerID, domain.StatusHearing)
	if err != nil {
		return nil, err
	}
	completed, err := s.caseRepo.CountByStatus(ctx, ownerID, domain.StatusCompleted)
	if err != nil {
		return nil, err
	}

	return &DashboardStats{
		Total:     total,
		Active:    active,
		ThisWeek:  thisWeek,
		Pending:   pending,
		Hearing:   hearing,
		Completed: completed,
	}, nil
}

// UpcomingHearings returns up to five cases with hearings in the next 30 days.
func (s *dashboardService) UpcomingHearings(ctx context.Context, ownerID primitive.ObjectID) ([]domain.Case, error) {
	today := time.Now().UTC().Truncate(24 * time.Hour)
	return s.caseRepo.FindUpcomingHearings(ctx, ownerID, today, today.AddDate(0, 0, 30), 5)
}

// RecentActivity formats the five most recently updated cases as a feed.
func (s *dashboardService) RecentActivity(ctx context.Context, ownerID primitive.ObjectID) ([]ActivityItem, error) {
	cases, err := s.caseRepo.FindRecentlyUpdated(ctx, ownerID, 5)
	if err != nil {
		return nil, err
	}

	items := make([]ActivityItem, 0, len(cases))
	for _, c := range cases {
		var action string
		switch c.Status {
		case domain.StatusPending:
			action = "Case status updated to pending"
		case domain.StatusHearing:
			action = "Case status updated to hearing"
		case domain.StatusCompleted:
			action = "Case marked as completed"
		default:
			action = "Case updated"
		}
		items = append(items, ActivityItem{
			ID:        c.ID,
			Title:     fmt.Sprintf("%s (%s)", c.Title, c.CaseNo),
			Action:    action,
			Timestamp: c.UpdatedAt,
			Type:      c.Status,
		})
	}
	return items, nil
}

// Metrics summarises the current calendar month.
func (s *dashboardService) Metrics(ctx context.Context, ownerID primitive.ObjectID) (*MonthlyMetrics, error) {
	now := time.Now().UTC()
	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	casesWon, err := s.caseRepo.CountCompletedSince(ctx, ownerID, startOfMonth)
	if err != nil {
		return nil, err
	}
	hearings, err := s.caseRepo.CountHearingsSince(ctx, ownerID, startOfMonth)
	if err != nil {
		return nil, err
	}
	pending, err := s.caseRepo.CountByStatus(ctx, ownerID, domain.StatusPending)
	if err != nil {
		return nil, err
	}

	return &MonthlyMetrics{
		CasesWon: casesWon,
		Hearings: hearings,
		Pending:  pending,
	}, nil
}
