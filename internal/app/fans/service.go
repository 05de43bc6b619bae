package fans

import (
	"context"
	"errors"

	"concertline/internal/models"
	"concertline/internal/store"
	"concertline/internal/validate"
)

// ErrNoFanProfile is returned when the signed-in user has no fan profile.
var ErrNoFanProfile = errors.New("user has no fan profile")

// Store defines the persistence hooks for fan engagement.
type Store interface {
	FanByUserID(ctx context.Context, userID int64) (*models.Fan, error)
	GetFan(ctx context.Context, id int64) (*models.Fan, error)
	ListFans(ctx context.Context, filter models.FanFilter) ([]*models.Fan, error)
	CreateFan(ctx context.Context, fan *models.Fan) (*models.Fan, error)
	UpdateFan(ctx context.Context, id int64, fan *models.Fan) (*models.Fan, error)
	GetConcert(ctx context.Context, id int64) (*models.ConcertWithDetails, error)

	ToggleInterest(ctx context.Context, fanID, concertID int64) (string, int, error)
	InterestCount(ctx context.Context, concertID int64) (int, error)
	UpsertRating(ctx context.Context, fanID, concertID int64, rating int) error
	ConcertRating(ctx context.Context, concertID int64) (models.RatingSummary, error)
	CreateAttendance(ctx context.Context, a *models.Attendance) (*models.Attendance, error)
	ListAttendances(ctx context.Context, filter models.EngagementFilter) ([]models.Attendance, error)
	ListInterests(ctx context.Context, filter models.EngagementFilter) ([]models.Interest, error)
}

// Toggle is the outcome of flipping a fan's interest in a concert.
type Toggle struct {
	Action string `json:"action"`
	Count  int    `json:"count"`
}

// RatingResult echoes a stored rating with the concert's new aggregate.
type RatingResult struct {
	Rating int `json:"rating"`
	models.RatingSummary
}

// Service coordinates fan listings, interest and ratings.
type Service interface {
	List(ctx context.Context, filter models.FanFilter) ([]*models.Fan, error)
	Get(ctx context.Context, id int64) (*models.Fan, error)
	Create(ctx context.Context, fan *models.Fan) (*models.Fan, error)
	Update(ctx context.Context, id int64, fan *models.Fan) (*models.Fan, error)
	ToggleInterest(ctx context.Context, userID, concertID int64) (*Toggle, error)
	InterestCount(ctx context.Context, concertID int64) (int, error)
	Rate(ctx context.Context, userID, concertID int64, rating int) (*RatingResult, error)
	ConcertRating(ctx context.Context, concertID int64) (models.RatingSummary, error)
	Attendances(ctx context.Context, concertID int64) ([]models.Attendance, error)
	ListAttendances(ctx context.Context, filter models.EngagementFilter) ([]models.Attendance, error)
	RecordAttendance(ctx context.Context, a *models.Attendance) (*models.Attendance, error)
	Interests(ctx context.Context, filter models.EngagementFilter) ([]models.Interest, error)
}

type service struct {
	store Store
}

// New constructs a fans Service backed by the given Store.
func New(store Store) Service {
	return &service{store: store}
}

func (s *service) List(ctx context.Context, filter models.FanFilter) ([]*models.Fan, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.ListFans(ctx, filter)
}

func (s *service) Get(ctx context.Context, id int64) (*models.Fan, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.GetFan(ctx, id)
}

// Create adds a fan profile that has no account, e.g. one entered by staff.
func (s *service) Create(ctx context.Context, fan *models.Fan) (*models.Fan, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	fan.UserID = nil
	if err := validate.Fan(fan); err != nil {
		return nil, err
	}
	return s.store.CreateFan(ctx, fan)
}

func (s *service) Update(ctx context.Context, id int64, fan *models.Fan) (*models.Fan, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := validate.Fan(fan); err != nil {
		return nil, err
	}
	return s.store.UpdateFan(ctx, id, fan)
}

func (s *service) fanFor(ctx context.Context, userID int64) (*models.Fan, error) {
	fan, err := s.store.FanByUserID(ctx, userID)
	if errors.Is(err, store.ErrFanNotFound) {
		return nil, ErrNoFanProfile
	}
	return fan, err
}

func (s *service) ToggleInterest(ctx context.Context, userID, concertID int64) (*Toggle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	fan, err := s.fanFor(ctx, userID)
	if err != nil {
		return nil, err
	}
	if _, err := s.store.GetConcert(ctx, concertID); err != nil {
		return nil, err
	}

	action, count, err := s.store.ToggleInterest(ctx, fan.ID, concertID)
	if err != nil {
		return nil, err
	}
	return &Toggle{Action: action, Count: count}, nil
}

func (s *service) InterestCount(ctx context.Context, concertID int64) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return s.store.InterestCount(ctx, concertID)
}

// Rate records the fan's rating for a completed concert and returns the
// concert's updated average.
func (s *service) Rate(ctx context.Context, userID, concertID int64, rating int) (*RatingResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	fan, err := s.fanFor(ctx, userID)
	if err != nil {
		return nil, err
	}
	concert, err := s.store.GetConcert(ctx, concertID)
	if err != nil {
		return nil, err
	}
	if concert.Status != models.ConcertCompleted {
		return nil, store.ErrConcertNotCompleted
	}
	if err := validate.Rating(rating); err != nil {
		return nil, err
	}

	if err := s.store.UpsertRating(ctx, fan.ID, concertID, rating); err != nil {
		return nil, err
	}
	summary, err := s.ConcertRating(ctx, concertID)
	if err != nil {
		return nil, err
	}
	return &RatingResult{Rating: rating, RatingSummary: summary}, nil
}

func (s *service) ConcertRating(ctx context.Context, concertID int64) (models.RatingSummary, error) {
	if err := ctx.Err(); err != nil {
		return models.RatingSummary{}, err
	}
	summary, err := s.store.ConcertRating(ctx, concertID)
	if err != nil {
		return models.RatingSummary{}, err
	}
	summary.Average = models.RoundAverage(summary.Average)
	return summary, nil
}

func (s *service) Attendances(ctx context.Context, concertID int64) ([]models.Attendance, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.ListAttendances(ctx, models.EngagementFilter{ConcertID: &concertID})
}

func (s *service) ListAttendances(ctx context.Context, filter models.EngagementFilter) ([]models.Attendance, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.ListAttendances(ctx, filter)
}

// RecordAttendance stores an attendance entered on a fan's behalf. Only
// completed concerts can have been attended.
func (s *service) RecordAttendance(ctx context.Context, a *models.Attendance) (*models.Attendance, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fe := validate.FieldErrors{}
	if a.FanID <= 0 {
		fe.Add("fan", "fan is required")
	}
	if a.ConcertID <= 0 {
		fe.Add("concert", "concert is required")
	}
	if a.Rating != nil {
		if rfe, ok := validate.AsFieldErrors(validate.Rating(*a.Rating)); ok {
			for field, msg := range rfe {
				fe.Add(field, msg)
			}
		}
	}
	if err := fe.Err(); err != nil {
		return nil, err
	}

	if _, err := s.store.GetFan(ctx, a.FanID); err != nil {
		if errors.Is(err, store.ErrFanNotFound) {
			return nil, validate.FieldErrors{"fan": "select a valid fan"}
		}
		return nil, err
	}
	concert, err := s.store.GetConcert(ctx, a.ConcertID)
	if errors.Is(err, store.ErrConcertNotFound) {
		return nil, validate.FieldErrors{"concert": "select a valid concert"}
	}
	if err != nil {
		return nil, err
	}
	if concert.Status != models.ConcertCompleted {
		return nil, validate.FieldErrors{"concert": "attendance can only be recorded for completed concerts"}
	}

	return s.store.CreateAttendance(ctx, a)
}

func (s *service) Interests(ctx context.Context, filter models.EngagementFilter) ([]models.Interest, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.ListInterests(ctx, filter)
}
