// Package pack implements PackRegistry: the immutable, versioned artifact
// catalogue described in spec.md §4.1.
package pack

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/wisbric/orbit/pkg/apierror"
	"github.com/wisbric/orbit/pkg/clusterstate"
)

// UploadURLFunc generates an opaque, hook-configurable upload URL for a
// freshly registered Pack version. The default implementation performs no
// I/O — it is a pure function of name/version, matching §5's rule that the
// core itself never suspends except through genuinely external hooks.
type UploadURLFunc func(name, version string) string

// DefaultUploadURL returns a deterministic placeholder URL.
func DefaultUploadURL(name, version string) string {
	return fmt.Sprintf("https://artifacts.invalid/upload/%s/%s", name, version)
}

// Registry is the PackRegistry manager.
type Registry struct {
	state     *clusterstate.State
	uploadURL UploadURLFunc
}

// New creates a Registry over the given shared cluster state.
func New(state *clusterstate.State, uploadURL UploadURLFunc) *Registry {
	if uploadURL == nil {
		uploadURL = DefaultUploadURL
	}
	return &Registry{state: state, uploadURL: uploadURL}
}

// RegisterInput describes a new Pack version.
type RegisterInput struct {
	Name        string
	Version     string
	RuntimeTag  clusterstate.RuntimeType
	OwnerID     string
	Description string
	Metadata    map[string]string
	BundleExt   string // defaults to "pack"
}

// RegisterOutput is the Pack plus its generated upload URL.
type RegisterOutput struct {
	Pack      clusterstate.Pack
	UploadURL string
}

// Register creates a new Pack version. Rejects if (name, version) already
// exists or the version string is not valid semver.
func (r *Registry) Register(requesterID string, in RegisterInput) apierror.Result[RegisterOutput] {
	if in.Name == "" || requesterID == "" {
		return apierror.Fail[RegisterOutput](apierror.New(apierror.CodeValidationError, "name and requester are required"))
	}
	if in.RuntimeTag != clusterstate.RuntimeNode && in.RuntimeTag != clusterstate.RuntimeBrowser && in.RuntimeTag != clusterstate.RuntimeUniversal {
		return apierror.Fail[RegisterOutput](apierror.New(apierror.CodeValidationError, "runtimeTag must be node, browser, or universal"))
	}
	if !validSemver(in.Version) {
		return apierror.Fail[RegisterOutput](apierror.New(apierror.CodeValidationError, fmt.Sprintf("malformed semver version %q", in.Version)))
	}

	r.state.Lock()
	defer r.state.Unlock()

	if _, exists := r.state.PackIDByNameVersion(in.Name, in.Version); exists {
		return apierror.Fail[RegisterOutput](apierror.New(apierror.CodeVersionExists, fmt.Sprintf("%s@%s already registered", in.Name, in.Version)))
	}

	ext := in.BundleExt
	if ext == "" {
		ext = "pack"
	}
	bundlePath := fmt.Sprintf("packs/%s/%s/bundle.%s", in.Name, in.Version, ext)

	now := time.Now()
	p := &clusterstate.Pack{
		ID:          uuid.NewString(),
		Name:        in.Name,
		Version:     in.Version,
		RuntimeTag:  in.RuntimeTag,
		OwnerID:     in.OwnerID,
		BundlePath:  bundlePath,
		Description: in.Description,
		Metadata:    in.Metadata,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	r.state.Packs[p.ID] = p
	r.state.IndexPackVersion(p.Name, p.Version, p.ID)

	return apierror.Ok(RegisterOutput{Pack: *p, UploadURL: r.uploadURL(in.Name, in.Version)})
}

// Update modifies a Pack's mutable fields (description, metadata). Only the
// owner may update.
func (r *Registry) Update(requesterID, packID string, description *string, metadata map[string]string) apierror.Result[clusterstate.Pack] {
	r.state.Lock()
	defer r.state.Unlock()

	p, ok := r.state.Packs[packID]
	if !ok {
		return apierror.Fail[clusterstate.Pack](apierror.New(apierror.CodePackNotFound, "pack not found"))
	}
	if p.OwnerID != requesterID {
		return apierror.Fail[clusterstate.Pack](apierror.New(apierror.CodeValidationError, "only the owner may update a pack"))
	}
	if description != nil {
		p.Description = *description
	}
	if metadata != nil {
		p.Metadata = metadata
	}
	p.UpdatedAt = time.Now()
	return apierror.Ok(*p)
}

// Delete removes a single Pack version. Only the owner may delete.
func (r *Registry) Delete(requesterID, packID string) apierror.Result[struct{}] {
	r.state.Lock()
	defer r.state.Unlock()

	p, ok := r.state.Packs[packID]
	if !ok {
		return apierror.Fail[struct{}](apierror.New(apierror.CodePackNotFound, "pack not found"))
	}
	if p.OwnerID != requesterID {
		return apierror.Fail[struct{}](apierror.New(apierror.CodeValidationError, "only the owner may delete a pack"))
	}
	delete(r.state.Packs, packID)
	r.state.DeindexPackVersion(p.Name, p.Version)
	return apierror.Ok(struct{}{})
}

// DeleteAllVersions removes every version of a named Pack. Requires the
// requester to own every version; fails without deleting anything otherwise.
func (r *Registry) DeleteAllVersions(requesterID, name string) apierror.Result[struct{}] {
	r.state.Lock()
	defer r.state.Unlock()

	var toDelete []*clusterstate.Pack
	for _, p := range r.state.Packs {
		if p.Name == name {
			if p.OwnerID != requesterID {
				return apierror.Fail[struct{}](apierror.New(apierror.CodeValidationError, "requester does not own every version of this pack"))
			}
			toDelete = append(toDelete, p)
		}
	}
	if len(toDelete) == 0 {
		return apierror.Fail[struct{}](apierror.New(apierror.CodePackNotFound, "no versions of this pack exist"))
	}
	for _, p := range toDelete {
		delete(r.state.Packs, p.ID)
		r.state.DeindexPackVersion(p.Name, p.Version)
	}
	return apierror.Ok(struct{}{})
}

// Get returns a Pack by ID.
func (r *Registry) Get(packID string) (clusterstate.Pack, bool) {
	r.state.Lock()
	defer r.state.Unlock()
	p, ok := r.state.Packs[packID]
	if !ok {
		return clusterstate.Pack{}, false
	}
	return *p, true
}

// GetByNameVersion returns a Pack by its (name, version) composite key.
func (r *Registry) GetByNameVersion(name, version string) (clusterstate.Pack, bool) {
	r.state.Lock()
	defer r.state.Unlock()
	return GetByNameVersionLocked(r.state, name, version)
}

// GetLocked is the lock-free core of Get, used by the scheduler when it
// already holds the state lock for a create/schedule/rollback attempt.
func GetLocked(state *clusterstate.State, packID string) (clusterstate.Pack, bool) {
	p, ok := state.Packs[packID]
	if !ok {
		return clusterstate.Pack{}, false
	}
	return *p, true
}

// GetByNameVersionLocked is the lock-free core of GetByNameVersion.
func GetByNameVersionLocked(state *clusterstate.State, name, version string) (clusterstate.Pack, bool) {
	id, ok := state.PackIDByNameVersion(name, version)
	if !ok {
		return clusterstate.Pack{}, false
	}
	p := state.Packs[id]
	return *p, true
}

// Summary is a single row of a PackRegistry listing: the latest version of
// a named Pack, plus the total number of versions registered under that name.
type Summary struct {
	Pack         clusterstate.Pack
	VersionCount int
}

// List returns the latest version of every registered Pack name.
func (r *Registry) List() []Summary {
	r.state.Lock()
	defer r.state.Unlock()
	return latestPerName(lo.Values(r.state.Packs))
}

// Search performs a case-insensitive substring match on Pack name, returning
// the latest version of each matching, uniquely-named Pack.
func (r *Registry) Search(query string) []Summary {
	r.state.Lock()
	defer r.state.Unlock()

	q := strings.ToLower(query)
	matches := lo.Filter(lo.Values(r.state.Packs), func(p *clusterstate.Pack, _ int) bool {
		return strings.Contains(strings.ToLower(p.Name), q)
	})
	return latestPerName(matches)
}

// latestPerName groups packs by name and keeps only the highest-versioned
// Pack in each group, annotated with the group's size.
func latestPerName(packs []*clusterstate.Pack) []Summary {
	byName := lo.GroupBy(packs, func(p *clusterstate.Pack) string { return p.Name })

	out := make([]Summary, 0, len(byName))
	for _, group := range byName {
		latest := group[0]
		for _, p := range group[1:] {
			if compareVersions(p.Version, latest.Version) > 0 {
				latest = p
			}
		}
		out = append(out, Summary{Pack: *latest, VersionCount: len(group)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Pack.Name < out[j].Pack.Name })
	return out
}

// CompatibleWithRuntime reports whether a Pack can run on a Node of the
// given runtime type: universal packs match any runtime, others must match
// exactly.
func CompatibleWithRuntime(tag clusterstate.RuntimeType, nodeRuntime clusterstate.RuntimeType) bool {
	if tag == clusterstate.RuntimeUniversal {
		return true
	}
	return tag == nodeRuntime
}
