package pack

import (
	"testing"

	"github.com/wisbric/orbit/pkg/clusterstate"
)

func newTestRegistry() *Registry {
	return New(clusterstate.New(), nil)
}

func TestRegister_DuplicateNameVersionRejected(t *testing.T) {
	r := newTestRegistry()
	in := RegisterInput{Name: "web", Version: "1.0.0", RuntimeTag: clusterstate.RuntimeNode, OwnerID: "u1"}

	if res := r.Register("u1", in); !res.Success {
		t.Fatalf("first register failed: %v", res.Err)
	}
	res := r.Register("u1", in)
	if res.Success {
		t.Fatal("expected duplicate (name, version) to be rejected")
	}
	if res.Err.Code != "VERSION_EXISTS" {
		t.Errorf("code = %s, want VERSION_EXISTS", res.Err.Code)
	}
}

func TestRegister_MalformedSemverRejected(t *testing.T) {
	r := newTestRegistry()
	res := r.Register("u1", RegisterInput{Name: "web", Version: "not-a-version", RuntimeTag: clusterstate.RuntimeNode, OwnerID: "u1"})
	if res.Success {
		t.Fatal("expected malformed semver to be rejected")
	}
	if res.Err.Code != "VALIDATION_ERROR" {
		t.Errorf("code = %s, want VALIDATION_ERROR", res.Err.Code)
	}
}

func TestRegister_BundlePathIsDeterministic(t *testing.T) {
	r := newTestRegistry()
	res := r.Register("u1", RegisterInput{Name: "web", Version: "1.2.3", RuntimeTag: clusterstate.RuntimeNode, OwnerID: "u1"})
	if !res.Success {
		t.Fatalf("register failed: %v", res.Err)
	}
	want := "packs/web/1.2.3/bundle.pack"
	if res.Data.Pack.BundlePath != want {
		t.Errorf("bundlePath = %q, want %q", res.Data.Pack.BundlePath, want)
	}
}

func TestUpdate_OnlyOwnerMayUpdate(t *testing.T) {
	r := newTestRegistry()
	reg := r.Register("owner", RegisterInput{Name: "web", Version: "1.0.0", RuntimeTag: clusterstate.RuntimeNode, OwnerID: "owner"})

	desc := "new description"
	res := r.Update("someone-else", reg.Data.Pack.ID, &desc, nil)
	if res.Success {
		t.Fatal("expected non-owner update to be rejected")
	}

	res = r.Update("owner", reg.Data.Pack.ID, &desc, nil)
	if !res.Success {
		t.Fatalf("owner update failed: %v", res.Err)
	}
	if res.Data.Description != desc {
		t.Errorf("description = %q, want %q", res.Data.Description, desc)
	}
}

func TestCompareVersions(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"1.10.0", "1.9.0", 1},
		{"1.0", "1.0.0", 0},
		{"1.0.0-rc1", "1.0.0", 0}, // pre-release ignored for ordering
		{"2.0.0", "1.9.9", 1},
		{"1.0.0", "1.0.1", -1},
	}
	for _, tt := range tests {
		if got := compareVersions(tt.a, tt.b); got != tt.want {
			t.Errorf("compareVersions(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestList_LatestVersionPerName(t *testing.T) {
	r := newTestRegistry()
	r.Register("u1", RegisterInput{Name: "web", Version: "1.0.0", RuntimeTag: clusterstate.RuntimeNode, OwnerID: "u1"})
	r.Register("u1", RegisterInput{Name: "web", Version: "1.10.0", RuntimeTag: clusterstate.RuntimeNode, OwnerID: "u1"})
	r.Register("u1", RegisterInput{Name: "web", Version: "1.9.0", RuntimeTag: clusterstate.RuntimeNode, OwnerID: "u1"})
	r.Register("u1", RegisterInput{Name: "worker", Version: "2.0.0", RuntimeTag: clusterstate.RuntimeNode, OwnerID: "u1"})

	summaries := r.List()
	if len(summaries) != 2 {
		t.Fatalf("len(summaries) = %d, want 2", len(summaries))
	}
	for _, s := range summaries {
		if s.Pack.Name == "web" {
			if s.Pack.Version != "1.10.0" {
				t.Errorf("web latest = %s, want 1.10.0", s.Pack.Version)
			}
			if s.VersionCount != 3 {
				t.Errorf("web versionCount = %d, want 3", s.VersionCount)
			}
		}
	}
}

func TestCompatibleWithRuntime(t *testing.T) {
	if !CompatibleWithRuntime(clusterstate.RuntimeUniversal, clusterstate.RuntimeBrowser) {
		t.Error("universal pack should match any node runtime")
	}
	if CompatibleWithRuntime(clusterstate.RuntimeNode, clusterstate.RuntimeBrowser) {
		t.Error("node pack should not match browser runtime")
	}
	if !CompatibleWithRuntime(clusterstate.RuntimeNode, clusterstate.RuntimeNode) {
		t.Error("node pack should match node runtime")
	}
}
