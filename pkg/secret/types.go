// Package secret implements SecretManager: authenticated-encryption at
// rest over an in-memory Secret map kept separate from clusterstate.State
// (so Secrets are never reachable through a serialization of cluster
// state), and the pod-injection resolver that turns named Secrets into an
// env/volume payload, per spec.md §4.4.
package secret

import "time"

// InjectionMode selects how a Secret is exposed to a Pod.
type InjectionMode string

const (
	InjectEnv    InjectionMode = "env"
	InjectVolume InjectionMode = "volume"
)

// Injection describes how a Secret's keys map onto a Pod's environment or
// filesystem. Exactly one of the two shapes is meaningful, selected by Mode.
type Injection struct {
	Mode InjectionMode

	// env mode
	Prefix     string
	KeyMapping map[string]string // plaintext key -> env var name

	// volume mode
	MountPath   string
	FileMapping map[string]string // plaintext key -> file name
}

// Secret is the metadata-only, outward-facing shape of a stored secret.
// It never carries plaintext, ciphertext, or key material.
type Secret struct {
	ID        string
	Name      string
	Namespace string
	Type      string
	Injection Injection
	Version   int
	KeyCount  int
	CreatedBy string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// record is the manager's internal, encrypted-at-rest representation.
// Never exposed outside this package.
type record struct {
	meta          Secret
	encryptedData []byte
	iv            []byte
	authTag       []byte
}
