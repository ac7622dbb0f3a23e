package scenario

import (
	"encoding/json"
	"fmt"
	"strings"
)

// loginDetectionScript generates the JavaScript probe that decides whether
// the current session is authorized against the target service.
//
// Decision order: a URL path fragment from the blocklist means "not
// authorized"; a login indicator selector means "authorized"; a logout
// indicator means "not authorized". When no selector matches, a path that
// contains neither "/login" nor "auth" is treated as authorized. That last
// rule is a best-effort heuristic with no formal guarantee; it covers
// services that redirect unauthenticated visitors to a login route.
//
// The script stores its full findings on window.__authorization_check and
// returns "true"/"false" for the service_authorized variable.
func loginDetectionScript(svc Service) string {
	meta, _ := json.Marshal(map[string]any{
		"login":           svc.LoginIndicators,
		"logout":          svc.LogoutIndicators,
		"display":         svc.DisplayNameSelectors,
		"login_blocklist": svc.LoginPathBlocklist,
	})
	targetURL, _ := json.Marshal(svc.TargetURL)

	script := fmt.Sprintf(`
(() => {
  const meta = %s;
  const target = %s;
  const result = { authorized: false, displayName: '', path: location.pathname || '' };
  try {
    const current = String(location.href || '').trim();
    if (!current.startsWith(target)) {
      result.path = new URL(current).pathname || '';
    }
    const path = (result.path || '').toLowerCase();
    for (const fragment of meta.login_blocklist || []) {
      if (fragment && path.includes(String(fragment).toLowerCase())) {
        window.__authorization_check = result;
        return 'false';
      }
    }
    const anyMatch = (selectors) => (selectors || []).some((selector) => {
      try {
        return !!document.querySelector(selector);
      } catch (_) {
        return false;
      }
    });
    result.authorized = anyMatch(meta.login);
    if (!result.authorized && !anyMatch(meta.logout)) {
      if (path && !path.includes('/login') && !path.includes('auth')) {
        result.authorized = true;
      }
    }
    const names = [];
    for (const selector of meta.display || []) {
      try {
        const element = document.querySelector(selector);
        if (!element) continue;
        const text = (element.getAttribute('aria-label') || element.textContent || '')
          .replace(/[‍‌​‎‏️]/g, '')
          .replace(/\s+/g, ' ')
          .trim();
        if (text) names.push(text);
      } catch (_) {}
    }
    if (names.length) {
      result.displayName = names[0];
    }
  } catch (error) {
    console.error('authorization detection failed', error);
  }
  window.__authorization_check = result;
  return result.authorized ? 'true' : 'false';
})();
`, meta, targetURL)

	return strings.TrimSpace(script)
}

// displayNameScript returns the display name captured by the login
// detection probe, or an empty string when none was found.
func displayNameScript() string {
	return strings.TrimSpace(`
(() => {
  const info = window.__authorization_check;
  if (info && typeof info.displayName === 'string') {
    return info.displayName;
  }
  return '';
})();
`)
}

// profileSerialScript scans well-known globals and browser storage for the
// profile serial the RPA tool injects into its sessions. Candidates are
// ranked longest-first so a full serial beats a truncated fragment.
func profileSerialScript() string {
	return strings.TrimSpace(`
(() => {
  const found = new Set();
  const push = (value) => {
    if (value === undefined || value === null) return;
    const text = String(value).trim();
    if (text) found.add(text);
  };
  const inspect = (obj) => {
    if (!obj || typeof obj !== 'object') return;
    for (const key of ['serialNumber', 'serial_number', 'profileSerial', 'id', 'serial']) {
      if (key in obj) push(obj[key]);
    }
  };
  try {
    for (const key of ['profileInfo', 'profile_info', 'AdsPowerProfile', 'AdsPower', 'adsPower', 'apx']) {
      try {
        const candidate = window[key];
        inspect(candidate);
        if (candidate && typeof candidate === 'object') {
          inspect(candidate.profileInfo);
          inspect(candidate.profile_info);
        }
      } catch (_) {}
    }
    const scan = (storage) => {
      if (!storage || typeof storage.length !== 'number') return;
      for (let i = 0; i < storage.length; i += 1) {
        const key = storage.key(i);
        if (!key || !/serial|profile|ads/i.test(key)) continue;
        let value = null;
        try {
          value = storage.getItem(key);
        } catch (_) {
          continue;
        }
        if (!value) continue;
        try {
          inspect(JSON.parse(value));
        } catch (_) {
          const match = String(value).match(/serial(?:Number|_number)?['"=:\s]*([A-Za-z0-9._-]+)/i);
          if (match && match[1]) push(match[1]);
        }
      }
    };
    scan(window.localStorage);
    scan(window.sessionStorage);
  } catch (error) {
    console.warn('profile serial detection failed', error);
  }
  const ordered = Array.from(found).sort((a, b) => b.length - a.length || a.localeCompare(b));
  const serial = ordered[0] || '';
  window.__authorization_profile_serial = serial;
  return serial;
})();
`)
}
