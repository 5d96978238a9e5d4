package lesson

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/harper/lumi/internal/observability"
	"github.com/harper/lumi/internal/tracing"
	"github.com/harper/lumi/pkg/content"
	"github.com/harper/lumi/pkg/dispatch"
	"github.com/harper/lumi/pkg/profile"
	"github.com/harper/lumi/pkg/tenant"
)

// ProfileStore loads learner records and brain profiles.
type ProfileStore interface {
	GetLearner(ctx context.Context, learnerID string) (*profile.Learner, error)
	GetBrainProfile(ctx context.Context, learnerID string) (*profile.BrainProfile, error)
}

// TenantConfigService returns a tenant's curriculum configuration, nil when
// the tenant has none.
type TenantConfigService interface {
	GetConfig(ctx context.Context, tenantID string) (*tenant.Config, error)
}

// ContentLookup returns curated content for a subject and region, nil when
// none exists.
type ContentLookup interface {
	Lookup(ctx context.Context, tenantID, subject, region string) (*content.ApprovedContent, error)
}

// RecommendFunc ranks difficulty recommendations for a brain profile.
type RecommendFunc func(profile.BrainProfile) []profile.DifficultyRecommendation

// noDifficultyData is the difficulty summary used when the profile yields
// no recommendations at all.
const noDifficultyData = "no difficulty data available yet"

// Generator runs the lesson-plan fallback chain: curated content, then a
// generative call, then the static template. It always produces a fully
// populated plan; upstream failures are logged and absorbed, never
// surfaced to the caller.
type Generator struct {
	profiles  ProfileStore
	tenants   TenantConfigService
	content   ContentLookup
	dispatch  dispatch.Dispatcher
	recommend RecommendFunc
	logger    zerolog.Logger
}

// GeneratorConfig holds generator configuration.
type GeneratorConfig struct {
	Profiles  ProfileStore
	Tenants   TenantConfigService
	Content   ContentLookup
	Dispatch  dispatch.Dispatcher
	Recommend RecommendFunc
	Logger    zerolog.Logger
}

// NewGenerator creates a lesson-plan generator.
func NewGenerator(cfg GeneratorConfig) (*Generator, error) {
	if cfg.Profiles == nil {
		return nil, fmt.Errorf("profile store is required")
	}
	if cfg.Tenants == nil {
		return nil, fmt.Errorf("tenant config service is required")
	}
	if cfg.Content == nil {
		return nil, fmt.Errorf("content lookup is required")
	}
	if cfg.Dispatch == nil {
		return nil, fmt.Errorf("dispatcher is required")
	}
	if cfg.Recommend == nil {
		cfg.Recommend = profile.RecommendDifficulty
	}

	return &Generator{
		profiles:  cfg.Profiles,
		tenants:   cfg.Tenants,
		content:   cfg.Content,
		dispatch:  cfg.Dispatch,
		recommend: cfg.Recommend,
		logger:    cfg.Logger,
	}, nil
}

// GenerateLessonPlan produces a lesson plan for the request. It never
// returns an error for upstream failures; the static tier guarantees a
// complete plan.
func (g *Generator) GenerateLessonPlan(ctx context.Context, req PlanRequest) *Plan {
	logger := tracing.LoggerFromContext(ctx, g.logger).With().
		Str("learner_id", req.LearnerID).
		Str("subject", req.Subject).
		Logger()

	brainProfile, grade, tenantCfg := g.gatherContext(ctx, req, logger)

	curriculumLabel := tenantCfg.CurriculumLabelFor(req.Subject)
	difficultySummary := g.difficultySummary(brainProfile, req.Subject)

	objective, source := g.resolveObjective(ctx, req, grade, curriculumLabel, difficultySummary, logger)
	observability.RecordLessonPlan(source)

	plan := &Plan{
		ID:        fmt.Sprintf("lesson-%d", time.Now().UnixMilli()),
		LearnerID: req.LearnerID,
		TenantID:  req.TenantID,
		Subject:   req.Subject,
		Region:    req.Region,
		Domain:    req.Domain,
		Title:     fmt.Sprintf("%s practice (%s)", req.Subject, curriculumLabel),
		Objective: objective,
		Blocks:    staticBlocks(req.Subject),
		CreatedAt: time.Now(),
	}

	logger.Info().
		Str("plan_id", plan.ID).
		Str("objective_source", source).
		Str("curriculum", curriculumLabel).
		Msg("Lesson plan generated")

	return plan
}

// gatherContext fetches the brain profile and tenant configuration
// concurrently. The two lookups are independent; the chain suspends until
// both complete. Every failure here degrades to a default.
func (g *Generator) gatherContext(ctx context.Context, req PlanRequest, logger zerolog.Logger) (profile.BrainProfile, int, *tenant.Config) {
	var (
		wg           sync.WaitGroup
		brainProfile profile.BrainProfile
		grade        = 6
		tenantCfg    *tenant.Config
	)

	wg.Add(2)

	go func() {
		defer wg.Done()

		learner, err := g.profiles.GetLearner(ctx, req.LearnerID)
		if err != nil {
			logger.Warn().Err(err).Msg("Learner lookup failed, using placeholder grade")
			learner = &profile.Learner{ID: req.LearnerID, TenantID: req.TenantID, CurrentGrade: grade}
		}
		grade = learner.CurrentGrade

		persisted, err := g.profiles.GetBrainProfile(ctx, req.LearnerID)
		if err != nil {
			logger.Warn().Err(err).Msg("Brain profile lookup failed, synthesizing default")
		}
		if persisted != nil {
			brainProfile = *persisted
		} else {
			brainProfile = profile.SynthesizeDefaultProfile(*learner)
		}
	}()

	go func() {
		defer wg.Done()

		cfg, err := g.tenants.GetConfig(ctx, req.TenantID)
		if err != nil {
			logger.Warn().Err(err).Msg("Tenant config lookup failed, proceeding without")
			return
		}
		tenantCfg = cfg
	}()

	wg.Wait()
	return brainProfile, grade, tenantCfg
}

// difficultySummary picks the subject-matched recommendation, else the
// first available one, else the no-data placeholder.
func (g *Generator) difficultySummary(brainProfile profile.BrainProfile, subject string) string {
	recs := g.recommend(brainProfile)
	if len(recs) == 0 {
		return noDifficultyData
	}
	chosen := recs[0]
	for _, rec := range recs {
		if rec.Subject == subject {
			chosen = rec
			break
		}
	}
	return fmt.Sprintf("%s difficulty for %s (%s)", chosen.RecommendedDifficulty, chosen.Subject, chosen.Rationale)
}

// resolveObjective walks the tiers in strict priority order and returns the
// objective text plus its source ("curated", "generated", or "static"). A
// satisfied tier skips all later tiers. Any error in tiers 1-2 is swallowed
// with a warning and falls through to the static default.
func (g *Generator) resolveObjective(ctx context.Context, req PlanRequest, grade int, curriculumLabel, difficultySummary string, logger zerolog.Logger) (string, string) {
	// Tier 1: curated content. Adapting the curated material is an
	// external concern; finding it means the generative call is skipped.
	curated, err := g.content.Lookup(ctx, req.TenantID, req.Subject, req.Region)
	if err != nil {
		logger.Warn().Err(err).Msg("Approved content lookup failed, treating as not found")
	}
	if curated != nil {
		logger.Info().Str("content_id", curated.ID).Msg("Using curated content as lesson basis")
		return defaultObjective, "curated"
	}

	// Tier 2: generative fallback.
	prompt := buildPrompt(req, grade, curriculumLabel, difficultySummary)
	generated, err := g.dispatch.Dispatch(ctx, prompt, systemInstruction)
	if err != nil {
		logger.Warn().Err(err).Msg("Model dispatch failed, falling back to static objective")
		return defaultObjective, "static"
	}

	objective := ExtractObjective(generated)
	if objective == "" {
		logger.Warn().Msg("Generated response yielded no usable objective, falling back to static")
		return defaultObjective, "static"
	}

	return objective, "generated"
}
