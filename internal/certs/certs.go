// Package certs loads extra trust anchors for the API client.
package certs

import (
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// CertManager reads the certificate files in a directory.
type CertManager struct {
	certDir string
	now     func() time.Time
}

func NewCertManager(certDir string) *CertManager {
	return &CertManager{certDir: certDir, now: time.Now}
}

// LoadCertificates parses every .crt and .pem file below the directory. A
// file may hold several PEM blocks; non-certificate blocks are skipped.
func (cm *CertManager) LoadCertificates() ([]*x509.Certificate, error) {
	var certs []*x509.Certificate
	err := filepath.WalkDir(cm.certDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !(strings.HasSuffix(d.Name(), ".crt") || strings.HasSuffix(d.Name(), ".pem")) {
			return nil
		}
		found, err := loadFile(path)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		certs = append(certs, found...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return certs, nil
}

func loadFile(path string) ([]*x509.Certificate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var out []*x509.Certificate
	for {
		var block *pem.Block
		block, data = pem.Decode(data)
		if block == nil {
			break
		}
		if block.Type != "CERTIFICATE" {
			continue
		}
		cert, err := x509.ParseCertificate(block.Bytes)
		if err != nil {
			return nil, err
		}
		out = append(out, cert)
	}
	if len(out) == 0 {
		return nil, errors.New("failed to parse certificate PEM")
	}
	return out, nil
}

// IsExpired reports whether cert is outside its validity window.
func (cm *CertManager) IsExpired(cert *x509.Certificate) bool {
	now := cm.now()
	return cert.NotAfter.Before(now) || cert.NotBefore.After(now)
}

// Pool returns the system roots plus every valid certificate in the
// directory, and the number of certificates that were skipped as expired.
func (cm *CertManager) Pool() (*x509.CertPool, int, error) {
	pool, err := x509.SystemCertPool()
	if err != nil || pool == nil {
		pool = x509.NewCertPool()
	}
	certs, err := cm.LoadCertificates()
	if err != nil {
		return nil, 0, err
	}
	skipped := 0
	for _, c := range certs {
		if cm.IsExpired(c) {
			skipped++
			continue
		}
		pool.AddCert(c)
	}
	return pool, skipped, nil
}
