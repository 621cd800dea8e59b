package secret

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/wisbric/orbit/internal/telemetry"
	"github.com/wisbric/orbit/pkg/apierror"
)

// Config holds the SecretManager's configurable keys (spec.md §6).
type Config struct {
	MasterKey        string
	DefaultNamespace string
}

// DefaultConfig returns the spec-mandated defaults.
func DefaultConfig() Config {
	return Config{DefaultNamespace: "default"}
}

// Manager is the SecretManager. Secrets live in their own map (mu-guarded
// separately from clusterstate.State) to prevent accidental inclusion in
// any serialization of cluster state.
type Manager struct {
	mu      sync.Mutex
	records map[string]*record          // id -> record
	byNS    map[string]map[string]string // namespace -> name -> id
	key     [32]byte
	cfg     Config
}

// New creates a Manager. With no MasterKey configured, an ephemeral random
// key is used (development only; secrets become unrecoverable on restart).
func New(cfg Config) *Manager {
	key := randomEphemeralKey()
	if cfg.MasterKey != "" {
		key = deriveKey(cfg.MasterKey)
	}
	if cfg.DefaultNamespace == "" {
		cfg.DefaultNamespace = "default"
	}
	return &Manager{
		records: make(map[string]*record),
		byNS:    make(map[string]map[string]string),
		key:     key,
		cfg:     cfg,
	}
}

// CreateInput describes a new Secret.
type CreateInput struct {
	Name      string
	Namespace string
	Type      string
	Data      map[string]string
	Injection Injection
	CreatedBy string
}

// Create encrypts data and stores a new Secret. Fails SECRET_EXISTS if
// (namespace, name) is already taken.
func (m *Manager) Create(in CreateInput) apierror.Result[Secret] {
	if in.Name == "" {
		return apierror.Fail[Secret](apierror.New(apierror.CodeValidationError, "name is required"))
	}
	ns := in.Namespace
	if ns == "" {
		ns = m.cfg.DefaultNamespace
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if names, ok := m.byNS[ns]; ok {
		if _, exists := names[in.Name]; exists {
			telemetry.SecretOperationsTotal.WithLabelValues("create", "rejected").Inc()
			return apierror.Fail[Secret](apierror.New(apierror.CodeSecretExists, fmt.Sprintf("secret %q already exists in namespace %q", in.Name, ns)))
		}
	}

	ciphertext, iv, authTag, err := encrypt(m.key, in.Data)
	if err != nil {
		telemetry.SecretOperationsTotal.WithLabelValues("create", "error").Inc()
		return apierror.Fail[Secret](apierror.New(apierror.CodeValidationError, "failed to encrypt secret data"))
	}

	now := time.Now()
	rec := &record{
		meta: Secret{
			ID:        uuid.NewString(),
			Name:      in.Name,
			Namespace: ns,
			Type:      in.Type,
			Injection: in.Injection,
			Version:   1,
			KeyCount:  len(in.Data),
			CreatedBy: in.CreatedBy,
			CreatedAt: now,
			UpdatedAt: now,
		},
		encryptedData: ciphertext,
		iv:            iv,
		authTag:       authTag,
	}
	m.records[rec.meta.ID] = rec
	if m.byNS[ns] == nil {
		m.byNS[ns] = make(map[string]string)
	}
	m.byNS[ns][in.Name] = rec.meta.ID

	telemetry.SecretOperationsTotal.WithLabelValues("create", "success").Inc()
	return apierror.Ok(rec.meta)
}

// UpdateInput carries the optional fields of a Secret update. A non-nil
// Data re-encrypts with a fresh IV and bumps Version; Injection-only
// changes leave Version unchanged.
type UpdateInput struct {
	Data      map[string]string
	Injection *Injection
}

// Update modifies an existing Secret.
func (m *Manager) Update(id string, in UpdateInput) apierror.Result[Secret] {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.records[id]
	if !ok {
		telemetry.SecretOperationsTotal.WithLabelValues("update", "rejected").Inc()
		return apierror.Fail[Secret](apierror.New(apierror.CodeSecretNotFound, "secret not found"))
	}

	if in.Data != nil {
		ciphertext, iv, authTag, err := encrypt(m.key, in.Data)
		if err != nil {
			telemetry.SecretOperationsTotal.WithLabelValues("update", "error").Inc()
			return apierror.Fail[Secret](apierror.New(apierror.CodeValidationError, "failed to encrypt secret data"))
		}
		rec.encryptedData, rec.iv, rec.authTag = ciphertext, iv, authTag
		rec.meta.Version++
		rec.meta.KeyCount = len(in.Data)
	}
	if in.Injection != nil {
		rec.meta.Injection = *in.Injection
	}
	rec.meta.UpdatedAt = time.Now()

	telemetry.SecretOperationsTotal.WithLabelValues("update", "success").Inc()
	return apierror.Ok(rec.meta)
}

// Delete removes a Secret permanently.
func (m *Manager) Delete(id string) apierror.Result[struct{}] {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.records[id]
	if !ok {
		return apierror.Fail[struct{}](apierror.New(apierror.CodeSecretNotFound, "secret not found"))
	}
	delete(m.records, id)
	delete(m.byNS[rec.meta.Namespace], rec.meta.Name)
	telemetry.SecretOperationsTotal.WithLabelValues("delete", "success").Inc()
	return apierror.Ok(struct{}{})
}

// Get returns a Secret's metadata by ID.
func (m *Manager) Get(id string) (Secret, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[id]
	if !ok {
		return Secret{}, false
	}
	return rec.meta, true
}

// GetByName returns a Secret's metadata by (namespace, name).
func (m *Manager) GetByName(namespace, name string) (Secret, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.byNS[namespace][name]
	if !ok {
		return Secret{}, false
	}
	return m.records[id].meta, true
}

// List returns every Secret's metadata in a namespace.
func (m *Manager) List(namespace string) []Secret {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Secret, 0, len(m.byNS[namespace]))
	for _, id := range m.byNS[namespace] {
		out = append(out, m.records[id].meta)
	}
	return out
}
