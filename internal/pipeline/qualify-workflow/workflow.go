// internal/pipeline/qualify-workflow/workflow.go
package qualifyworkflow

import (
	"context"
	"sync"
	"time"

	stderr "leadbot/internal/common/errors"
	"leadbot/internal/common/logger"
	"leadbot/internal/common/metrics"
	"leadbot/internal/common/observability"
	"leadbot/internal/models"
	"leadbot/internal/notifier"
	classifyqualification "leadbot/internal/pipeline/classify-qualification"
	extractprofile "leadbot/internal/pipeline/extract-profile"
	routemodel "leadbot/internal/pipeline/route-model"
	scorelead "leadbot/internal/pipeline/score-lead"
	"leadbot/internal/responder"
	"leadbot/internal/store"
)

// turn is the mutable context threaded through the node graph for one turn.
type turn struct {
	state       *models.ConversationState
	userMessage string
	language    string

	tier       models.ModelTier
	reply      string
	score      int
	classified models.QualificationStatus
}

// node is one step of the qualification graph. Nodes run in fixed order;
// conditional branches are expressed by nodes that decide internally.
type node struct {
	name string
	run  func(ctx context.Context, t *turn)
}

// Workflow drives one conversation turn through the qualification graph:
// Respond -> Extract -> ScoreClassify -> UpdateAttempts -> NotifyPersist ->
// Return. The pure pipeline components are shared across sessions; per-session
// state is serialized by a keyed mutex so overlapping turns on the same
// session never interleave.
type Workflow struct {
	cfg Config

	router     *routemodel.Router
	extractor  *extractprofile.Extractor
	scorer     *scorelead.Scorer
	classifier *classifyqualification.Classifier

	responder   responder.Responder
	notify      notifier.Notifier
	persistence store.Persistence
	leadIndex   store.LeadIndex

	obs    *observability.Observability
	logger logger.Logger

	sessionLocks sync.Map // sessionID -> *sync.Mutex
}

func New(
	cfg Config,
	resp responder.Responder,
	notify notifier.Notifier,
	persistence store.Persistence,
	leadIndex store.LeadIndex,
	obs *observability.Observability,
	log logger.Logger,
) *Workflow {
	return &Workflow{
		cfg:         cfg,
		router:      routemodel.New(),
		extractor:   extractprofile.New(),
		scorer:      scorelead.New(),
		classifier:  classifyqualification.New(),
		responder:   resp,
		notify:      notify,
		persistence: persistence,
		leadIndex:   leadIndex,
		obs:         obs,
		logger:      log.WithFields(map[string]interface{}{"component": "qualify-workflow"}),
	}
}

// RunTurn executes the graph for one user message and returns the turn
// result. The session state is mutated in place; the caller owns saving it.
func (w *Workflow) RunTurn(ctx context.Context, state *models.ConversationState, userMessage, language string) (*models.TurnResult, error) {
	mu := w.lockSession(state.SessionID)
	mu.Lock()
	defer mu.Unlock()

	start := time.Now()

	t := &turn{
		state:       state,
		userMessage: userMessage,
		language:    language,
	}
	if t.language == "" {
		t.language = state.Language
	}

	graph := []node{
		{name: "respond", run: w.respond},
		{name: "extract", run: w.extract},
		{name: "score-classify", run: w.scoreClassify},
		{name: "update-attempts", run: w.updateAttempts},
		{name: "notify-persist", run: w.notifyPersist},
	}

	for _, n := range graph {
		n.run(ctx, t)
		w.logger.Debug("node completed", map[string]interface{}{
			"node":       n.name,
			"session_id": state.SessionID,
		})
	}

	state.Append(models.RoleUser, userMessage)
	state.Append(models.RoleAssistant, t.reply)
	state.Language = t.language
	state.LastModelTier = t.tier

	w.logTranscript(ctx, t)

	duration := time.Since(start)
	metrics.TurnsProcessed.WithLabelValues(string(state.Status)).Inc()
	metrics.TurnDuration.Observe(duration.Seconds())
	if w.obs != nil {
		w.obs.RecordTurnProcessed(ctx, string(state.Status))
		w.obs.RecordTurnDuration(ctx, duration, string(state.Status))
	}

	w.logger.Info("turn completed", map[string]interface{}{
		"session_id": state.SessionID,
		"status":     string(state.Status),
		"score":      t.score,
		"model_tier": string(t.tier),
		"attempts":   state.Attempts,
		"duration":   duration.String(),
	})

	return &models.TurnResult{
		Reply:     t.reply,
		Profile:   state.LeadProfile,
		Status:    state.Status,
		Score:     t.score,
		ModelTier: t.tier,
		Attempts:  state.Attempts,
	}, nil
}

func (w *Workflow) lockSession(sessionID string) *sync.Mutex {
	mu, _ := w.sessionLocks.LoadOrStore(sessionID, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// respond routes the message to a model tier and generates the reply. The
// router sees the previous turn's attempt counter. A responder failure has
// already degraded to the apology reply, so later nodes always run.
func (w *Workflow) respond(ctx context.Context, t *turn) {
	t.tier = w.router.Route(t.userMessage, t.state.Attempts)
	if reason := w.router.EscalationReason(t.userMessage, t.state.Attempts); reason != "" {
		metrics.Escalations.WithLabelValues(reason).Inc()
	}
	t.reply = w.responder.Generate(ctx, t.state, t.userMessage, t.language, t.tier)
}

func (w *Workflow) extract(_ context.Context, t *turn) {
	t.state.LeadProfile = w.extractor.Extract(t.userMessage, t.state.LeadProfile)

	// A detected language preference beats the caller-supplied one.
	if pref := t.state.LeadProfile.LanguagePreference; pref == "ar" {
		t.language = pref
	}
}

func (w *Workflow) scoreClassify(_ context.Context, t *turn) {
	t.score = w.scorer.Score(t.state.LeadProfile)
	t.state.LeadProfile.LeadScore = t.score
	t.classified = w.classifier.Classify(t.state.LeadProfile)
}

// updateAttempts resets the counter on a status change and increments it
// otherwise. NEEDS_REVIEW is produced here, not by the classifier, and stays
// sticky until the lead qualifies.
func (w *Workflow) updateAttempts(_ context.Context, t *turn) {
	newStatus := t.classified
	if t.state.Status == models.StatusNeedsReview && newStatus != models.StatusQualified {
		newStatus = models.StatusNeedsReview
	}

	if newStatus == t.state.Status {
		t.state.Attempts++
	} else {
		t.state.Attempts = 0
	}

	if newStatus != models.StatusQualified && t.state.Attempts >= w.cfg.NeedsReviewAttempts {
		if newStatus != models.StatusNeedsReview {
			w.logger.Warn("session flagged for review", map[string]interface{}{
				"session_id": t.state.SessionID,
				"attempts":   t.state.Attempts,
			})
		}
		newStatus = models.StatusNeedsReview
	}

	t.state.Status = newStatus
}

// notifyPersist fires the hot-lead branch when the lead qualified or the
// score cleared the notify threshold. All side effects are fire-and-forget:
// they run after detaching from the request context and never fail the turn.
func (w *Workflow) notifyPersist(ctx context.Context, t *turn) {
	if t.state.Status != models.StatusQualified && t.score <= w.cfg.NotifyScoreThreshold {
		return
	}

	sessionID := t.state.SessionID
	profile := t.state.LeadProfile
	score := t.score
	placeCall := score > w.cfg.CallScoreThreshold

	detached := context.WithoutCancel(ctx)
	go func() {
		sctx, cancel := context.WithTimeout(detached, w.cfg.SideEffectTimeout)
		defer cancel()

		w.notify.SMS(sctx, profile, score)
		w.notify.Email(sctx, profile, sessionID)
		if placeCall {
			w.notify.Call(sctx)
		}

		if err := w.persistence.SaveLead(sctx, sessionID, profile, score); err != nil {
			w.logger.WithError(stderr.NewSideEffectError(stderr.ErrCodeLeadPersistFailed, err.Error())).Error(
				"lead persist failed", map[string]interface{}{"session_id": sessionID})
		}
		if err := w.leadIndex.Index(sctx, sessionID, profile, score); err != nil {
			w.logger.WithError(stderr.NewSideEffectError(stderr.ErrCodeLeadIndexFailed, err.Error())).Error(
				"lead index failed", map[string]interface{}{"session_id": sessionID})
		}
	}()
}

// logTranscript mirrors the full transcript to durable storage on every turn,
// so a crashed session can still be reviewed.
func (w *Workflow) logTranscript(ctx context.Context, t *turn) {
	sessionID := t.state.SessionID
	messages := make([]models.ConversationMessage, len(t.state.Messages))
	copy(messages, t.state.Messages)

	detached := context.WithoutCancel(ctx)
	go func() {
		sctx, cancel := context.WithTimeout(detached, w.cfg.SideEffectTimeout)
		defer cancel()

		if err := w.persistence.LogConversation(sctx, sessionID, messages); err != nil {
			w.logger.WithError(stderr.NewSideEffectError(stderr.ErrCodeTranscriptLogFailed, err.Error())).Error(
				"transcript log failed", map[string]interface{}{"session_id": sessionID})
		}
	}()
}
