package secret

import (
	"fmt"
	"strings"

	"github.com/wisbric/orbit/internal/telemetry"
	"github.com/wisbric/orbit/pkg/apierror"
)

// VolumePayload is one volume-mode secret's resolved mount.
type VolumePayload struct {
	MountPath string
	Files     map[string]string
}

// PodResolution is the short-lived payload produced for a Pod's injection.
// Consumers must discard it after use; it is never serialized.
type PodResolution struct {
	Env     map[string]string
	Volumes []VolumePayload
}

// ResolveForPod resolves named Secrets within namespace into an env/volume
// payload for pod injection, per spec.md §4.4:
//  1. every name must exist in namespace, else MISSING_SECRETS;
//  2. volume-mode secrets must not collide on mountPath, else MOUNT_PATH_CONFLICT;
//  3. each secret is decrypted; any failure wipes all accumulated plaintext
//     and fails DECRYPTION_FAILED;
//  4. the env/volume payload is built from plaintext;
//  5. every plaintext value is overwritten before returning.
func (m *Manager) ResolveForPod(names []string, namespace string) apierror.Result[PodResolution] {
	m.mu.Lock()
	defer m.mu.Unlock()

	recs := make([]*record, 0, len(names))
	var missing []string
	for _, name := range names {
		id, ok := m.byNS[namespace][name]
		if !ok {
			missing = append(missing, name)
			continue
		}
		recs = append(recs, m.records[id])
	}
	if len(missing) > 0 {
		telemetry.SecretOperationsTotal.WithLabelValues("resolve", "missing").Inc()
		return apierror.Fail[PodResolution](apierror.New(apierror.CodeMissingSecrets, "one or more secrets not found").
			WithDetails(map[string]any{"missing": missing}))
	}

	if conflict := findMountPathConflict(recs); conflict != "" {
		telemetry.SecretOperationsTotal.WithLabelValues("resolve", "mount_conflict").Inc()
		return apierror.Fail[PodResolution](apierror.New(apierror.CodeMountPathConflict, conflict))
	}

	plaintexts := make([]map[string]string, len(recs))
	for i, rec := range recs {
		pt, err := decrypt(m.key, rec.encryptedData, rec.iv, rec.authTag)
		if err != nil {
			for _, p := range plaintexts[:i] {
				zeroStringMap(p)
			}
			telemetry.SecretOperationsTotal.WithLabelValues("resolve", "decryption_failed").Inc()
			return apierror.Fail[PodResolution](apierror.New(apierror.CodeDecryptionFailed, "failed to decrypt secret"))
		}
		plaintexts[i] = pt
	}

	result := PodResolution{Env: make(map[string]string)}
	for i, rec := range recs {
		pt := plaintexts[i]
		switch rec.meta.Injection.Mode {
		case InjectVolume:
			files := make(map[string]string, len(pt))
			for k, v := range pt {
				fname := k
				if mapped, ok := rec.meta.Injection.FileMapping[k]; ok {
					fname = mapped
				}
				files[fname] = v
			}
			result.Volumes = append(result.Volumes, VolumePayload{
				MountPath: rec.meta.Injection.MountPath,
				Files:     files,
			})
		default: // env
			for k, v := range pt {
				envName := rec.meta.Injection.Prefix + strings.ToUpper(k)
				if mapped, ok := rec.meta.Injection.KeyMapping[k]; ok {
					envName = mapped
				}
				result.Env[envName] = v
			}
		}
	}

	for _, pt := range plaintexts {
		zeroStringMap(pt)
	}

	telemetry.SecretOperationsTotal.WithLabelValues("resolve", "success").Inc()
	return apierror.Ok(result)
}

// findMountPathConflict detects two volume-mode secrets sharing the same
// mountPath. Returns a human-readable description of the first conflict
// found, or "" if none. Checked before any decryption (spec.md §4.4 step 2).
func findMountPathConflict(recs []*record) string {
	seen := make(map[string]string) // mountPath -> secret name
	for _, rec := range recs {
		if rec.meta.Injection.Mode != InjectVolume {
			continue
		}
		path := rec.meta.Injection.MountPath
		if other, exists := seen[path]; exists {
			return fmt.Sprintf("mount path %q used by both %q and %q", path, other, rec.meta.Name)
		}
		seen[path] = rec.meta.Name
	}
	return ""
}
