package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/diewo77/window-configurator/internal/models"
	"github.com/diewo77/window-configurator/internal/pricing"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var ErrNoRuleSet = errors.New("no pricing rule set published")

// RuleService publishes versioned pricing rule tables and keeps the live
// provider in step with the newest one.
type RuleService struct {
	db       *gorm.DB
	provider *pricing.Provider
	logger   *zap.Logger
}

func NewRuleService(db *gorm.DB, provider *pricing.Provider, logger *zap.Logger) *RuleService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RuleService{db: db, provider: provider, logger: logger}
}

// Publish validates rules, stores them as the next version and makes them live.
// The stored table is a full replacement of the previous one.
func (s *RuleService) Publish(ctx context.Context, rules *pricing.RuleTable, author string) (*pricing.RuleTable, error) {
	if rules == nil {
		return nil, pricing.ErrNilRules
	}
	if v := rules.Validate(); !v.Empty() {
		return nil, v
	}
	next := rules.Clone()
	if next.Currency == "" {
		next.Currency = "GBP"
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var latest int
		if err := tx.Model(&models.PricingRuleSet{}).Select("COALESCE(MAX(version), 0)").Scan(&latest).Error; err != nil {
			return err
		}
		next.Version = latest + 1
		payload, err := json.Marshal(next)
		if err != nil {
			return err
		}
		return tx.Create(&models.PricingRuleSet{Version: next.Version, Payload: string(payload), Author: author}).Error
	})
	if err != nil {
		return nil, fmt.Errorf("publish pricing rules: %w", err)
	}
	if err := s.provider.Replace(next); err != nil {
		return nil, err
	}
	s.logger.Info("pricing rules published", zap.Int("version", next.Version), zap.String("author", author))
	return next, nil
}

// Latest returns the newest stored rule table.
func (s *RuleService) Latest(ctx context.Context) (*pricing.RuleTable, error) {
	var row models.PricingRuleSet
	if err := s.db.WithContext(ctx).Order("version desc").First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoRuleSet
		}
		return nil, err
	}
	rt, err := pricing.ParseRules([]byte(row.Payload))
	if err != nil {
		return nil, err
	}
	rt.Version = row.Version
	return rt, nil
}

// Bootstrap makes the newest stored table live. When nothing has been
// published yet, fallback is published as version 1.
func (s *RuleService) Bootstrap(ctx context.Context, fallback *pricing.RuleTable) (*pricing.RuleTable, error) {
	rt, err := s.Latest(ctx)
	if errors.Is(err, ErrNoRuleSet) {
		if fallback == nil {
			fallback = pricing.DefaultRules()
		}
		return s.Publish(ctx, fallback, "system")
	}
	if err != nil {
		return nil, err
	}
	if err := s.provider.Replace(rt); err != nil {
		return nil, err
	}
	s.logger.Info("pricing rules loaded", zap.Int("version", rt.Version))
	return rt, nil
}

// History lists published versions, newest first.
func (s *RuleService) History(ctx context.Context, limit int) ([]models.PricingRuleSet, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	var rows []models.PricingRuleSet
	err := s.db.WithContext(ctx).Order("version desc").Limit(limit).Find(&rows).Error
	return rows, err
}
