package storage

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/benvon/roda-da-vida/internal/logger"
	"github.com/benvon/roda-da-vida/internal/models"
)

// Storage keys, shared with the web frontend
const (
	KeyStandardSession = "minhaRodaDaVida"
	KeyCustomSession   = "roda_custom"
	KeyHistory         = "historicoAnalises"
	KeyEmail           = "userEmail"
	KeyPremium         = "isPremium"
	KeySeenTour        = "hasSeenTour"
	KeyMode            = "rodaModo"
)

const writeTimeout = 5 * time.Second

// Loaded is everything stored for one client. Unreadable keys are reported
// as absent.
type Loaded struct {
	Mode     models.Mode
	Standard *models.Session
	Custom   *models.Session
	History  []models.AnalysisRecord
	Email    string
	Premium  bool
	SeenTour bool
}

// Adapter reads and writes one client's keys. Writes never fail from the
// caller's point of view; errors are logged and dropped.
type Adapter struct {
	kv        KV
	namespace string
	logger    *zap.Logger
}

// NewAdapter binds kv to namespace
func NewAdapter(kv KV, namespace string, log *zap.Logger) *Adapter {
	if log == nil {
		log = zap.NewNop()
	}
	return &Adapter{
		kv:        kv,
		namespace: namespace,
		logger:    log.With(zap.String("client_id", logger.SanitizeClientID(namespace))),
	}
}

// Load reads every key
func (a *Adapter) Load(ctx context.Context) Loaded {
	var l Loaded

	var std models.Session
	if a.readJSON(ctx, KeyStandardSession, &std) {
		l.Standard = &std
	}
	var custom models.Session
	if a.readJSON(ctx, KeyCustomSession, &custom) {
		l.Custom = &custom
	}
	var history []models.AnalysisRecord
	if a.readJSON(ctx, KeyHistory, &history) {
		l.History = history
	}
	var email string
	if a.readJSON(ctx, KeyEmail, &email) {
		l.Email = email
	}
	if v, ok := a.read(ctx, KeyMode); ok {
		l.Mode = models.Mode(v)
	}
	if v, ok := a.read(ctx, KeyPremium); ok {
		l.Premium = v == "true"
	}
	_, l.SeenTour = a.read(ctx, KeySeenTour)
	return l
}

// SaveSession stores the draft of one wheel
func (a *Adapter) SaveSession(mode models.Mode, s *models.Session) {
	key := KeyStandardSession
	if mode == models.ModeCustom {
		key = KeyCustomSession
	}
	a.writeJSON(key, s)
}

// SaveMode stores the active mode
func (a *Adapter) SaveMode(mode models.Mode) {
	a.write(KeyMode, string(mode))
}

// SaveHistory stores the whole history list
func (a *Adapter) SaveHistory(records []models.AnalysisRecord) {
	if records == nil {
		records = []models.AnalysisRecord{}
	}
	a.writeJSON(KeyHistory, records)
}

// SaveEmail stores the captured email
func (a *Adapter) SaveEmail(email string) {
	a.writeJSON(KeyEmail, email)
}

// SavePremium stores the premium flag. Only true is ever written.
func (a *Adapter) SavePremium() {
	a.write(KeyPremium, "true")
}

// MarkTourSeen records that the onboarding tour was shown
func (a *Adapter) MarkTourSeen() {
	a.write(KeySeenTour, "true")
}

func (a *Adapter) read(ctx context.Context, key string) (string, bool) {
	v, ok, err := a.kv.Get(ctx, a.namespace, key)
	if err != nil {
		a.logger.Warn("storage_read_failed", zap.String("key", key), zap.String("error", logger.SanitizeError(err)))
		return "", false
	}
	return v, ok
}

func (a *Adapter) readJSON(ctx context.Context, key string, dst any) bool {
	raw, ok := a.read(ctx, key)
	if !ok {
		return false
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		a.logger.Warn("storage_value_corrupt", zap.String("key", key), zap.String("error", logger.SanitizeError(err)))
		return false
	}
	return true
}

func (a *Adapter) write(key, value string) {
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()
	if err := a.kv.Set(ctx, a.namespace, key, value); err != nil {
		a.logger.Warn("storage_write_failed", zap.String("key", key), zap.String("error", logger.SanitizeError(err)))
	}
}

func (a *Adapter) writeJSON(key string, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		a.logger.Warn("storage_encode_failed", zap.String("key", key), zap.String("error", logger.SanitizeError(err)))
		return
	}
	a.write(key, string(b))
}
