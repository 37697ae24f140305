package services

import (
	"context"
	"errors"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"lottery-settlement/internal/models"
)

// Scheduler drives the operator steps on a timer: once a category's sale
// window has elapsed it schedules and executes the draw, and once a claim
// window has lapsed it recycles the round. Every step stays available over
// HTTP for manual operation; guard rejections here are the normal idle case
// and are not logged as failures.
type Scheduler struct {
	engine *LotteryEngine
	cron   *cron.Cron
	log    *zap.Logger
}

func NewScheduler(engine *LotteryEngine, log *zap.Logger) *Scheduler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Scheduler{
		engine: engine,
		cron:   cron.New(),
		log:    log,
	}
}

func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc("@every 1m", s.tick); err != nil {
		return err
	}
	s.cron.Start()
	return nil
}

func (s *Scheduler) Stop() {
	s.cron.Stop()
}

func (s *Scheduler) tick() {
	ctx := context.Background()
	for _, category := range models.Categories {
		s.step(ctx, category)
	}
}

func (s *Scheduler) step(ctx context.Context, category models.Category) {
	if _, err := s.engine.ScheduleDraw(ctx, category); err == nil {
		s.log.Info("draw scheduled", zap.String("category", string(category)))
	} else if !isGuardRejection(err) {
		s.log.Error("schedule_draw failed", zap.String("category", string(category)), zap.Error(err))
	}

	if _, err := s.engine.ExecuteDraw(ctx, category); err == nil {
		s.log.Info("draw executed", zap.String("category", string(category)))
	} else if !isGuardRejection(err) {
		s.log.Error("execute_draw failed", zap.String("category", string(category)), zap.Error(err))
	}

	if _, err := s.engine.RecycleUnclaimed(ctx, category); err == nil {
		s.log.Info("round recycled", zap.String("category", string(category)))
	} else if !isGuardRejection(err) {
		s.log.Error("recycle_unclaimed failed", zap.String("category", string(category)), zap.Error(err))
	}
}

// isGuardRejection reports whether the error is a state guard saying "not
// yet" rather than an operational fault.
func isGuardRejection(err error) bool {
	return errors.Is(err, ErrInvalidRoundState) ||
		errors.Is(err, ErrSaleWindowOpen) ||
		errors.Is(err, ErrMinPoolNotReached) ||
		errors.Is(err, ErrClaimWindowActive) ||
		errors.Is(err, ErrPrizeAlreadyClaimed) ||
		errors.Is(err, ErrRoundNotFound)
}
