package utils

import (
    "crypto/rand" // secure random bytes for the fallback suffix
    "encoding/hex"
    "errors"
    "fmt"
    "strings"
    "unicode"
)

// ErrSlugExhausted is returned when no unique slug could be produced within
// the retry budget, including the final random-suffix attempt.
var ErrSlugExhausted = errors.New("could not generate a unique slug")

// maxSlugAttempts caps the numbered-suffix retries before falling back to a
// random suffix.  The original behavior looped without bound; the cap keeps
// pathological titles from spinning forever.
const maxSlugAttempts = 100

// Slugify derives a URL-safe identifier from free text: lower-case, strip
// everything outside [a-z0-9\s-], collapse whitespace runs into single
// hyphens, collapse repeated hyphens and trim hyphens from both ends.
func Slugify(text string) string {
    var b strings.Builder
    for _, r := range strings.ToLower(text) {
        switch {
        case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
            b.WriteRune(r)
        case unicode.IsSpace(r):
            b.WriteRune(' ')
        }
    }
    s := strings.Join(strings.Fields(b.String()), "-")
    for strings.Contains(s, "--") {
        s = strings.ReplaceAll(s, "--", "-")
    }
    return strings.Trim(s, "-")
}

// UniqueSlug returns a slug for text that exists reports as unused at the
// moment of the check.  Collisions retry as "base-1", "base-2", … up to
// maxSlugAttempts, then once more with a random hex suffix.  The check and
// the eventual insert are not one atomic step; the store's unique key is
// the final arbiter and a losing insert surfaces as a conflict.
func UniqueSlug(text string, exists func(string) (bool, error)) (string, error) {
    base := Slugify(text)
    if base == "" {
        base = "untitled"
    }
    candidate := base
    for n := 1; n <= maxSlugAttempts; n++ {
        taken, err := exists(candidate)
        if err != nil {
            return "", err
        }
        if !taken {
            return candidate, nil
        }
        candidate = fmt.Sprintf("%s-%d", base, n)
    }
    suffix, err := randomHex(4)
    if err != nil {
        return "", err
    }
    candidate = base + "-" + suffix
    taken, err := exists(candidate)
    if err != nil {
        return "", err
    }
    if !taken {
        return candidate, nil
    }
    return "", ErrSlugExhausted
}

// randomHex returns a hex-encoded string generated from n bytes of
// cryptographically secure random data.
func randomHex(n int) (string, error) {
    buf := make([]byte, n)
    if _, err := rand.Read(buf); err != nil {
        return "", err
    }
    return hex.EncodeToString(buf), nil
}
