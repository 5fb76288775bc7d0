package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/scoutdash/personalization-backend/internal/logger"
	"github.com/scoutdash/personalization-backend/internal/repos"
	"github.com/scoutdash/personalization-backend/internal/types"
)

// WorkspaceOptions carries caller-owned state into a workspace request.
// DismissedIDs is the caller's view of which recommendations it has already
// dismissed; the generator itself holds no dismissal memory.
type WorkspaceOptions struct {
	DismissedIDs []string
}

type PersonalizationService interface {
	GetPersonalizedWorkspace(ctx context.Context, userID, tenantID uuid.UUID, opts WorkspaceOptions) (*types.PersonalizedWorkspace, error)
	TrackUserAction(ctx context.Context, userID uuid.UUID, action types.UserAction) error
}

// ActionAnalyzer inspects one tracked action against the updated profile and
// decides whether an immediate UI personalization should be pushed. It is an
// extension point: the default analyzer almost always answers no.
type ActionAnalyzer interface {
	Analyze(action types.UserAction, behavior *types.UserBehavior) types.ActionInsights
}

// PersonalizationSink receives fire-and-forget pushes of immediate UI
// changes. Implementations talk to the caller's live UI layer (SSE hub,
// redis bus); the service never waits on them.
type PersonalizationSink interface {
	Apply(ctx context.Context, userID uuid.UUID, insights types.ActionInsights) error
}

type personalizationService struct {
	db           *gorm.DB
	log          *logger.Logger
	prefRepo     repos.PreferenceRepo
	behaviorRepo repos.BehaviorRepo
	eventRepo    repos.ActionEventRepo
	recStateRepo repos.RecommendationStateRepo
	catalog      *WidgetCatalog
	analyzer     ActionAnalyzer
	sink         PersonalizationSink

	now       func() time.Time
	userLocks keyedMutex
}

func NewPersonalizationService(
	db *gorm.DB,
	log *logger.Logger,
	prefRepo repos.PreferenceRepo,
	behaviorRepo repos.BehaviorRepo,
	eventRepo repos.ActionEventRepo,
	recStateRepo repos.RecommendationStateRepo,
	catalog *WidgetCatalog,
	analyzer ActionAnalyzer,
	sink PersonalizationSink,
) PersonalizationService {
	if catalog == nil {
		catalog = DefaultWidgetCatalog()
	}
	if analyzer == nil {
		analyzer = NewDefaultActionAnalyzer()
	}
	return &personalizationService{
		db:           db,
		log:          log.With("service", "PersonalizationService"),
		prefRepo:     prefRepo,
		behaviorRepo: behaviorRepo,
		eventRepo:    eventRepo,
		recStateRepo: recStateRepo,
		catalog:      catalog,
		analyzer:     analyzer,
		sink:         sink,
		now:          time.Now,
	}
}

func (s *personalizationService) GetPersonalizedWorkspace(ctx context.Context, userID, tenantID uuid.UUID, opts WorkspaceOptions) (*types.PersonalizedWorkspace, error) {
	prefs, err := s.getOrCreatePreferences(ctx, nil, userID, tenantID)
	if err != nil {
		return nil, fmt.Errorf("fetch preferences: %w", err)
	}

	behavior, err := s.behaviorRepo.GetByUserID(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("fetch behavior: %w", err)
	}
	if behavior == nil {
		// Behavior rows are only persisted by the tracking path.
		behavior = defaultBehavior(userID)
	}

	dismissed, err := s.dismissedIDs(ctx, userID, opts.DismissedIDs)
	if err != nil {
		return nil, fmt.Errorf("fetch recommendation state: %w", err)
	}

	return &types.PersonalizedWorkspace{
		Layout:          generateLayout(prefs, behavior),
		Widgets:         s.selectWidgets(prefs, behavior),
		Shortcuts:       generateShortcuts(prefs, behavior),
		Recommendations: generateRecommendations(prefs, behavior, dismissed),
	}, nil
}

func (s *personalizationService) TrackUserAction(ctx context.Context, userID uuid.UUID, action types.UserAction) error {
	// Tracking must never destabilize the caller's event loop: malformed
	// input is logged and dropped, not raised.
	if userID == uuid.Nil || strings.TrimSpace(action.Type) == "" {
		s.log.Warn("Dropping malformed user action", "user_id", userID, "action_type", action.Type)
		return nil
	}

	unlock := s.userLocks.Lock(userID)
	defer unlock()

	var updated *types.UserBehavior
	err := s.inTx(ctx, func(tx *gorm.DB) error {
		behavior, err := s.behaviorRepo.GetByUserID(ctx, tx, userID)
		if err != nil {
			return fmt.Errorf("fetch behavior: %w", err)
		}
		if behavior == nil {
			behavior = defaultBehavior(userID)
		}

		now := s.now()
		updateActivityPattern(behavior, action, now)
		updateSearchPattern(behavior, action, now)
		updateFeatureAdoption(behavior, action, now)
		updateTimePatterns(behavior, now)

		if err := s.behaviorRepo.Upsert(ctx, tx, behavior); err != nil {
			return fmt.Errorf("store behavior: %w", err)
		}

		event := &types.UserActionEvent{
			ID:       uuid.New(),
			UserID:   userID,
			Type:     action.Type,
			Target:   action.Target,
			Duration: action.Duration,
			Result:   action.Result,
		}
		if action.Context != nil {
			if raw, err := json.Marshal(action.Context); err == nil {
				event.Context = datatypes.JSON(raw)
			}
		}
		if _, err := s.eventRepo.Create(ctx, tx, []*types.UserActionEvent{event}); err != nil {
			return fmt.Errorf("store action event: %w", err)
		}

		updated = behavior
		return nil
	})
	if err != nil {
		return err
	}

	insights := s.analyzer.Analyze(action, updated)
	if insights.RequiresImmediateAction && s.sink != nil {
		go func() {
			applyCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := s.sink.Apply(applyCtx, userID, insights); err != nil {
				s.log.Warn("Real-time personalization push failed", "user_id", userID, "error", err)
			}
		}()
	}
	return nil
}

func (s *personalizationService) getOrCreatePreferences(ctx context.Context, tx *gorm.DB, userID, tenantID uuid.UUID) (*types.UserPreferences, error) {
	prefs, err := s.prefRepo.GetByUserAndTenant(ctx, tx, userID, tenantID)
	if err != nil {
		return nil, err
	}
	if prefs != nil {
		return prefs, nil
	}
	prefs = defaultPreferences(userID, tenantID, "")
	if err := s.prefRepo.Upsert(ctx, tx, prefs); err != nil {
		return nil, err
	}
	return prefs, nil
}

func (s *personalizationService) dismissedIDs(ctx context.Context, userID uuid.UUID, fromCaller []string) (map[string]bool, error) {
	dismissed := make(map[string]bool, len(fromCaller))
	for _, id := range fromCaller {
		if id = strings.TrimSpace(id); id != "" {
			dismissed[id] = true
		}
	}
	if s.recStateRepo == nil {
		return dismissed, nil
	}
	states, err := s.recStateRepo.ListByUserID(ctx, nil, userID)
	if err != nil {
		return nil, err
	}
	for _, st := range states {
		if st != nil && st.Dismissed {
			dismissed[st.RecommendationID] = true
		}
	}
	return dismissed, nil
}

func (s *personalizationService) inTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	if s.db == nil {
		return fn(nil)
	}
	return s.db.WithContext(ctx).Transaction(fn)
}

// generateLayout derives the flat layout configuration from preferences,
// adjusted by observed behavior.
func generateLayout(prefs *types.UserPreferences, behavior *types.UserBehavior) types.WorkspaceLayout {
	layout := types.WorkspaceLayout{
		Density:         prefs.UI.Density,
		Theme:           prefs.UI.Theme,
		DefaultFileView: prefs.Workspace.DefaultFileView,
	}

	if behavior.Patterns.CollaborationStyle == "cross-functional" {
		layout.ShowCollaborationPanel = true
		layout.CollaborationPanelPosition = "right"
	}

	if len(behavior.Patterns.PrimaryActivities) > 0 &&
		strings.Contains(behavior.Patterns.PrimaryActivities[0].Activity, "analysis") {
		layout.ShowDataPanel = true
		layout.ExpandedSidebar = true
	}

	return layout
}

// selectWidgets conditionally includes widgets in a fixed order. A widget
// whose condition does not hold is omitted entirely, not disabled.
func (s *personalizationService) selectWidgets(prefs *types.UserPreferences, behavior *types.UserBehavior) []types.Widget {
	widgets := []types.Widget{}

	if len(prefs.Workspace.FavoriteWorkspaces) > 0 {
		if entry, ok := s.catalog.Entry(WidgetFavoriteWorkspaces); ok {
			entry.Config["workspace_ids"] = prefs.Workspace.FavoriteWorkspaces
			widgets = append(widgets, types.Widget{Type: WidgetFavoriteWorkspaces, Position: entry.Position, Config: entry.Config})
		}
	}

	if behavior.Patterns.AverageSessionDuration > 30 {
		if entry, ok := s.catalog.Entry(WidgetRecentActivity); ok {
			widgets = append(widgets, types.Widget{Type: WidgetRecentActivity, Position: entry.Position, Config: entry.Config})
		}
	}

	if behavior.LearningProfile.ExperienceLevel != "beginner" && prefs.AI.ProactiveInsights {
		if entry, ok := s.catalog.Entry(WidgetAIInsights); ok {
			widgets = append(widgets, types.Widget{Type: WidgetAIInsights, Position: entry.Position, Config: entry.Config})
		}
	}

	if behavior.Patterns.CollaborationStyle != "solo" {
		if entry, ok := s.catalog.Entry(WidgetTeamActivity); ok {
			widgets = append(widgets, types.Widget{Type: WidgetTeamActivity, Position: entry.Position, Config: entry.Config})
		}
	}

	return widgets
}

// generateShortcuts maps the top 5 activities and the 3 most-used custom
// prompts to shortcuts; at most 8 entries.
func generateShortcuts(prefs *types.UserPreferences, behavior *types.UserBehavior) []types.Shortcut {
	shortcuts := []types.Shortcut{}

	activities := behavior.Patterns.PrimaryActivities
	if len(activities) > 5 {
		activities = activities[:5]
	}
	for i, activity := range activities {
		shortcuts = append(shortcuts, types.Shortcut{
			ID:         "quick_" + activity.Activity,
			Label:      activity.Activity,
			Icon:       iconForActivity(activity.Activity),
			Action:     "navigate:" + activity.Activity,
			KeyBinding: fmt.Sprintf("cmd+%d", i+1),
		})
	}

	prompts := make([]types.CustomPrompt, len(prefs.AI.CustomPrompts))
	copy(prompts, prefs.AI.CustomPrompts)
	sort.SliceStable(prompts, func(i, j int) bool {
		return prompts[i].UsageCount > prompts[j].UsageCount
	})
	if len(prompts) > 3 {
		prompts = prompts[:3]
	}
	for _, prompt := range prompts {
		shortcuts = append(shortcuts, types.Shortcut{
			ID:         "prompt_" + prompt.ID,
			Label:      prompt.Name,
			Icon:       "sparkles",
			Action:     "ai:prompt:" + prompt.ID,
			KeyBinding: prompt.Shortcut,
		})
	}

	return shortcuts
}

// Recommendation rule IDs. The caller keys dismissal state on these.
const (
	RecWorkspaceFavorite = "rec_workspace_favorite"
	RecGuidedTour        = "rec_guided_tour"
	RecSavedSearches     = "rec_saved_searches"
	RecAIInsights        = "rec_ai_insights"
)

// generateRecommendations evaluates the independent rules in fixed order.
// Every rule either contributes one recommendation or abstains; none may
// error. Dismissed IDs are filtered from the output.
func generateRecommendations(prefs *types.UserPreferences, behavior *types.UserBehavior, dismissed map[string]bool) []types.PersonalizationRecommendation {
	recs := []types.PersonalizationRecommendation{}

	if len(behavior.Patterns.PrimaryActivities) > 5 {
		top := behavior.Patterns.PrimaryActivities[0]
		if !containsString(prefs.Workspace.FavoriteWorkspaces, top.Activity) {
			recs = append(recs, types.PersonalizationRecommendation{
				ID:          RecWorkspaceFavorite,
				Type:        "workspace",
				Title:       "Add to Favorites",
				Description: fmt.Sprintf("Add %q to your favorite workspaces for quick access", top.Activity),
				Benefit:     "Save 3 clicks per session",
				Priority:    "medium",
				Action: types.RecommendationAction{
					Type:   "enable",
					Target: "workspace.favorites",
					Params: map[string]any{"workspace_id": top.Activity},
				},
			})
		}
	}

	if behavior.LearningProfile.ExperienceLevel == "beginner" {
		recs = append(recs, types.PersonalizationRecommendation{
			ID:          RecGuidedTour,
			Type:        "learning",
			Title:       "Take a Guided Tour",
			Description: "Learn about advanced features with our interactive tour",
			Benefit:     "Increase productivity by 40%",
			Priority:    "high",
			Action: types.RecommendationAction{
				Type:   "learn",
				Target: "tour.advanced_features",
			},
		})
	}

	if len(behavior.Patterns.FrequentSearches) > 10 {
		searches := make([]types.SearchPattern, len(behavior.Patterns.FrequentSearches))
		copy(searches, behavior.Patterns.FrequentSearches)
		sort.SliceStable(searches, func(i, j int) bool {
			return searches[i].Frequency > searches[j].Frequency
		})
		queries := make([]string, 0, 3)
		for _, sp := range searches[:3] {
			queries = append(queries, sp.Query)
		}
		recs = append(recs, types.PersonalizationRecommendation{
			ID:          RecSavedSearches,
			Type:        "automation",
			Title:       "Save Frequent Searches",
			Description: "Create saved searches for your most common queries",
			Benefit:     "Find content 5x faster",
			Priority:    "high",
			Action: types.RecommendationAction{
				Type:   "customize",
				Target: "search.saved",
				Params: map[string]any{"searches": queries},
			},
		})
	}

	if !prefs.AI.ProactiveInsights && behavior.Patterns.TasksPerSession > 5 {
		recs = append(recs, types.PersonalizationRecommendation{
			ID:          RecAIInsights,
			Type:        "automation",
			Title:       "Enable AI Insights",
			Description: "Get proactive suggestions based on your work patterns",
			Benefit:     "Discover insights you might miss",
			Priority:    "medium",
			Action: types.RecommendationAction{
				Type:   "enable",
				Target: "ai.proactive_insights",
			},
		})
	}

	if len(dismissed) == 0 {
		return recs
	}
	filtered := recs[:0]
	for _, rec := range recs {
		if !dismissed[rec.ID] {
			filtered = append(filtered, rec)
		}
	}
	return filtered
}

func updateActivityPattern(behavior *types.UserBehavior, action types.UserAction, now time.Time) {
	duration := 0.0
	if action.Duration != nil {
		duration = *action.Duration
	}

	found := false
	for i := range behavior.Patterns.PrimaryActivities {
		p := &behavior.Patterns.PrimaryActivities[i]
		if p.Activity != action.Type {
			continue
		}
		p.Frequency++
		p.LastPerformed = now
		p.AverageDuration = (p.AverageDuration*float64(p.Frequency-1) + duration) / float64(p.Frequency)
		found = true
		break
	}
	if !found {
		behavior.Patterns.PrimaryActivities = append(behavior.Patterns.PrimaryActivities, types.ActivityPattern{
			Activity:        action.Type,
			Frequency:       1,
			LastPerformed:   now,
			AverageDuration: duration,
		})
	}

	// Stable keeps insertion order on frequency ties.
	sort.SliceStable(behavior.Patterns.PrimaryActivities, func(i, j int) bool {
		return behavior.Patterns.PrimaryActivities[i].Frequency > behavior.Patterns.PrimaryActivities[j].Frequency
	})
}

// updateSearchPattern folds search actions into the search history when the
// action context carries the query text.
func updateSearchPattern(behavior *types.UserBehavior, action types.UserAction, now time.Time) {
	if action.Type != "search" || action.Context == nil {
		return
	}
	query, _ := action.Context["query"].(string)
	if strings.TrimSpace(query) == "" {
		return
	}
	clicked, _ := action.Context["clicked_result"].(string)

	for i := range behavior.Patterns.FrequentSearches {
		sp := &behavior.Patterns.FrequentSearches[i]
		if sp.Query != query {
			continue
		}
		sp.Frequency++
		sp.LastSearched = now
		if clicked != "" && !containsString(sp.ClickedResults, clicked) {
			sp.ClickedResults = append(sp.ClickedResults, clicked)
		}
		return
	}
	pattern := types.SearchPattern{
		Query:        query,
		Frequency:    1,
		LastSearched: now,
	}
	if clicked != "" {
		pattern.ClickedResults = []string{clicked}
	}
	behavior.Patterns.FrequentSearches = append(behavior.Patterns.FrequentSearches, pattern)
}

func updateFeatureAdoption(behavior *types.UserBehavior, action types.UserAction, now time.Time) {
	for i := range behavior.LearningProfile.FeatureAdoption {
		fa := &behavior.LearningProfile.FeatureAdoption[i]
		if fa.Feature != action.Type {
			continue
		}
		fa.UsageCount++
		if fa.Proficiency < 100 {
			fa.Proficiency = minFloat(100, fa.Proficiency+5)
		}
		return
	}
	behavior.LearningProfile.FeatureAdoption = append(behavior.LearningProfile.FeatureAdoption, types.FeatureAdoption{
		Feature:     action.Type,
		FirstUsed:   now,
		UsageCount:  1,
		Proficiency: 5,
	})
}

func updateTimePatterns(behavior *types.UserBehavior, now time.Time) {
	hour := now.Hour()
	day := int(now.Weekday())

	if !containsInt(behavior.Patterns.ActiveHours, hour) {
		behavior.Patterns.ActiveHours = append(behavior.Patterns.ActiveHours, hour)
	}
	if !containsInt(behavior.Patterns.ActiveDays, day) {
		behavior.Patterns.ActiveDays = append(behavior.Patterns.ActiveDays, day)
	}
}

var activityIcons = map[string]string{
	"search":  "search",
	"upload":  "upload",
	"analyze": "chart",
	"share":   "share",
	"archive": "archive",
	"create":  "plus",
	"edit":    "edit",
	"review":  "eye",
}

func iconForActivity(activity string) string {
	if icon, ok := activityIcons[strings.ToLower(activity)]; ok {
		return icon
	}
	return "file"
}

func containsString(list []string, want string) bool {
	for _, v := range list {
		if v == want {
			return true
		}
	}
	return false
}

func containsInt(list []int, want int) bool {
	for _, v := range list {
		if v == want {
			return true
		}
	}
	return false
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

// keyedMutex serializes TrackUserAction per user ID so concurrent handlers
// cannot interleave read-modify-write on one profile.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*userLock
}

type userLock struct {
	mu   sync.Mutex
	refs int
}

func (k *keyedMutex) Lock(key uuid.UUID) func() {
	k.mu.Lock()
	if k.locks == nil {
		k.locks = make(map[uuid.UUID]*userLock)
	}
	l, ok := k.locks[key]
	if !ok {
		l = &userLock{}
		k.locks[key] = l
	}
	l.refs++
	k.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		k.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}
