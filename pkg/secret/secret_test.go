package secret

import (
	"testing"

	"github.com/wisbric/orbit/pkg/apierror"
)

func newTestManager() *Manager {
	return New(Config{MasterKey: "test-master-key", DefaultNamespace: "default"})
}

func TestCreate_RejectsDuplicateNameInNamespace(t *testing.T) {
	m := newTestManager()
	m.Create(CreateInput{Name: "db-creds", Namespace: "default", Data: map[string]string{"password": "hunter2"}})

	res := m.Create(CreateInput{Name: "db-creds", Namespace: "default", Data: map[string]string{"password": "other"}})
	if res.Success || res.Err.Code != apierror.CodeSecretExists {
		t.Fatalf("got %+v, want SECRET_EXISTS", res)
	}
}

func TestCreate_KeyCountMatchesInputData(t *testing.T) {
	m := newTestManager()
	res := m.Create(CreateInput{Name: "db-creds", Namespace: "default", Data: map[string]string{"user": "a", "password": "b"}})
	if !res.Success || res.Data.KeyCount != 2 {
		t.Fatalf("got %+v, want KeyCount=2", res)
	}
}

func TestUpdate_DataChangeBumpsVersion(t *testing.T) {
	m := newTestManager()
	created := m.Create(CreateInput{Name: "db-creds", Namespace: "default", Data: map[string]string{"password": "a"}})

	res := m.Update(created.Data.ID, UpdateInput{Data: map[string]string{"password": "b"}})
	if !res.Success || res.Data.Version != 2 {
		t.Fatalf("got version %d, want 2", res.Data.Version)
	}
}

func TestUpdate_InjectionOnlyChangeLeavesVersionUnchanged(t *testing.T) {
	m := newTestManager()
	created := m.Create(CreateInput{Name: "db-creds", Namespace: "default", Data: map[string]string{"password": "a"}})

	injection := Injection{Mode: InjectEnv, Prefix: "APP_"}
	res := m.Update(created.Data.ID, UpdateInput{Injection: &injection})
	if !res.Success || res.Data.Version != 1 {
		t.Fatalf("got version %d, want unchanged at 1", res.Data.Version)
	}
}

func TestEncryptDecrypt_RoundTrip(t *testing.T) {
	key := deriveKey("a master key")
	data := map[string]string{"user": "admin", "password": "correct-horse-battery-staple"}

	ciphertext, iv, authTag, err := encrypt(key, data)
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	got, err := decrypt(key, ciphertext, iv, authTag)
	if err != nil {
		t.Fatalf("decrypt: %v", err)
	}
	if got["user"] != "admin" || got["password"] != "correct-horse-battery-staple" {
		t.Errorf("got %+v", got)
	}
}

func TestDecrypt_TamperedCiphertextFails(t *testing.T) {
	key := deriveKey("a master key")
	ciphertext, iv, authTag, _ := encrypt(key, map[string]string{"k": "v"})
	ciphertext[0] ^= 0xFF

	if _, err := decrypt(key, ciphertext, iv, authTag); err == nil {
		t.Fatal("expected tampered ciphertext to fail decryption")
	}
}

func TestResolveForPod_MissingSecretFails(t *testing.T) {
	m := newTestManager()
	res := m.ResolveForPod([]string{"does-not-exist"}, "default")
	if res.Success || res.Err.Code != apierror.CodeMissingSecrets {
		t.Fatalf("got %+v, want MISSING_SECRETS", res)
	}
}

func TestResolveForPod_MountPathConflictFailsBeforeDecryption(t *testing.T) {
	m := newTestManager()
	m.Create(CreateInput{
		Name: "a", Namespace: "default", Data: map[string]string{"k": "v"},
		Injection: Injection{Mode: InjectVolume, MountPath: "/etc/secrets"},
	})
	m.Create(CreateInput{
		Name: "b", Namespace: "default", Data: map[string]string{"k": "v"},
		Injection: Injection{Mode: InjectVolume, MountPath: "/etc/secrets"},
	})

	res := m.ResolveForPod([]string{"a", "b"}, "default")
	if res.Success || res.Err.Code != apierror.CodeMountPathConflict {
		t.Fatalf("got %+v, want MOUNT_PATH_CONFLICT", res)
	}
}

func TestResolveForPod_EnvModeUsesPrefixAndKeyMapping(t *testing.T) {
	m := newTestManager()
	m.Create(CreateInput{
		Name: "db", Namespace: "default",
		Data:      map[string]string{"password": "secret", "user": "admin"},
		Injection: Injection{Mode: InjectEnv, Prefix: "DB_", KeyMapping: map[string]string{"user": "DATABASE_USER"}},
	})

	res := m.ResolveForPod([]string{"db"}, "default")
	if !res.Success {
		t.Fatalf("resolve failed: %v", res.Err)
	}
	if res.Data.Env["DB_PASSWORD"] != "secret" {
		t.Errorf("env = %+v, want DB_PASSWORD=secret", res.Data.Env)
	}
	if res.Data.Env["DATABASE_USER"] != "admin" {
		t.Errorf("env = %+v, want DATABASE_USER=admin (explicit keyMapping)", res.Data.Env)
	}
}

func TestResolveForPod_VolumeModeUsesFileMapping(t *testing.T) {
	m := newTestManager()
	m.Create(CreateInput{
		Name: "tls", Namespace: "default",
		Data:      map[string]string{"cert": "---cert---", "key": "---key---"},
		Injection: Injection{Mode: InjectVolume, MountPath: "/etc/tls", FileMapping: map[string]string{"cert": "tls.crt"}},
	})

	res := m.ResolveForPod([]string{"tls"}, "default")
	if !res.Success {
		t.Fatalf("resolve failed: %v", res.Err)
	}
	if len(res.Data.Volumes) != 1 {
		t.Fatalf("volumes = %+v, want one entry", res.Data.Volumes)
	}
	v := res.Data.Volumes[0]
	if v.MountPath != "/etc/tls" || v.Files["tls.crt"] != "---cert---" || v.Files["key"] != "---key---" {
		t.Errorf("got %+v", v)
	}
}
