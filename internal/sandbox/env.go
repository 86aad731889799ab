package sandbox

import (
	"os"
	"runtime"
)

// probeEnv returns a minimal environment for a probed process. Only
// allowlisted variables pass through, so host secrets (API keys,
// tokens) never reach the untrusted child. NO_COLOR and TERM=dumb
// force plain, non-interactive output.
func probeEnv() []string {
	var env []string
	for _, key := range safeEnvKeys() {
		if val, ok := os.LookupEnv(key); ok {
			env = append(env, key+"="+val)
		}
	}
	env = append(env, "NO_COLOR=1", "TERM=dumb")
	return env
}

// safeEnvKeys returns the platform-appropriate allowlist of
// environment variable names. TERM is deliberately absent: probes
// always run with TERM=dumb.
func safeEnvKeys() []string {
	if runtime.GOOS == "windows" {
		return []string{
			"PATH", "USERPROFILE", "USERNAME", "HOMEDRIVE", "HOMEPATH",
			"LANG", "TEMP", "TMP", "TZ",
			"SYSTEMROOT", "COMSPEC", "PATHEXT",
		}
	}
	return []string{"PATH", "HOME", "USER", "LANG", "LC_ALL", "TMPDIR", "TZ"}
}
