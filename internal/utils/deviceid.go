package utils

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"os/exec"
	"runtime"
	"strings"
)

// DeviceFingerprint returns a stable identifier for this machine. It is used
// to derive the local session vault key and to namespace shared session
// storage, never sent to the remote service in clear.
func DeviceFingerprint() (string, error) {
	var (
		id  string
		err error
	)
	switch runtime.GOOS {
	case "darwin":
		id, err = macOSPlatformUUID()
	case "linux":
		id, err = linuxMachineID()
	case "windows":
		id, err = windowsProductUUID()
	default:
		err = errors.New("unsupported platform: " + runtime.GOOS)
	}
	if err != nil {
		return "", err
	}
	return id, nil
}

// DeviceKey is a short, non-reversible form of the fingerprint suitable for
// storage keys. It falls back to the hostname when no fingerprint exists.
func DeviceKey() string {
	id, err := DeviceFingerprint()
	if err != nil {
		id, _ = os.Hostname()
	}
	sum := sha256.Sum256([]byte("edupath-device:" + id))
	return hex.EncodeToString(sum[:8])
}

func macOSPlatformUUID() (string, error) {
	out, err := exec.Command("ioreg", "-rd1", "-c", "IOPlatformExpertDevice").Output()
	if err != nil {
		return "", err
	}
	for _, line := range strings.Split(string(out), "\n") {
		if !strings.Contains(line, "IOPlatformUUID") {
			continue
		}
		if parts := strings.Split(line, "\""); len(parts) >= 4 {
			return parts[3], nil
		}
	}
	return "", errors.New("no IOPlatformUUID found")
}

func linuxMachineID() (string, error) {
	for _, path := range []string{"/etc/machine-id", "/var/lib/dbus/machine-id", "/sys/class/dmi/id/product_uuid"} {
		b, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		if id := strings.TrimSpace(string(b)); id != "" {
			return id, nil
		}
	}
	return "", errors.New("no machine id found on linux")
}

func windowsProductUUID() (string, error) {
	out, err := exec.Command("wmic", "csproduct", "get", "UUID").Output()
	if err != nil {
		return "", err
	}
	for _, line := range bytes.Split(out, []byte("\n")) {
		s := strings.TrimSpace(string(line))
		if s != "" && !strings.EqualFold(s, "UUID") {
			return s, nil
		}
	}
	return "", errors.New("no product uuid found on windows")
}
