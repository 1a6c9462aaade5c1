package certs

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeCert(t *testing.T, dir, name string, notBefore, notAfter time.Time) {
	t.Helper()
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatal(err)
	}
	tmpl := &x509.Certificate{
		SerialNumber:          big.NewInt(time.Now().UnixNano()),
		Subject:               pkix.Name{CommonName: name},
		NotBefore:             notBefore,
		NotAfter:              notAfter,
		IsCA:                  true,
		BasicConstraintsValid: true,
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	if err != nil {
		t.Fatal(err)
	}
	data := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der})
	if err := os.WriteFile(filepath.Join(dir, name), data, 0600); err != nil {
		t.Fatal(err)
	}
}

func TestPoolSkipsExpired(t *testing.T) {
	dir := t.TempDir()
	now := time.Now()
	writeCert(t, dir, "valid.pem", now.Add(-time.Hour), now.Add(24*time.Hour))
	writeCert(t, dir, "old.crt", now.Add(-48*time.Hour), now.Add(-24*time.Hour))
	if err := os.WriteFile(filepath.Join(dir, "README.txt"), []byte("ignored"), 0600); err != nil {
		t.Fatal(err)
	}

	cm := NewCertManager(dir)
	certs, err := cm.LoadCertificates()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(certs) != 2 {
		t.Fatalf("got %d certificates", len(certs))
	}
	pool, skipped, err := cm.Pool()
	if err != nil {
		t.Fatalf("pool: %v", err)
	}
	if pool == nil || skipped != 1 {
		t.Fatalf("pool=%v skipped=%d", pool, skipped)
	}
}

func TestLoadRejectsGarbage(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "bad.pem"), []byte("not pem"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, _, err := NewCertManager(dir).Pool(); err == nil {
		t.Fatal("expected parse error")
	}
}
