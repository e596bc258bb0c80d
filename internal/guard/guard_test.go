package guard_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Kyle6012/plagiarism-detection/internal/guard"
)

func TestDecide(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		name          string
		authenticated bool
		target        guard.View
		wantAllow     bool
		wantRedirect  guard.View
	}{
		{"protected while unauthenticated redirects to login", false, guard.ViewDashboard, false, guard.ViewLogin},
		{"upload while unauthenticated redirects to login", false, guard.ViewUpload, false, guard.ViewLogin},
		{"results while unauthenticated redirects to login", false, guard.ViewResults, false, guard.ViewLogin},
		{"protected while authenticated is allowed", true, guard.ViewDashboard, true, ""},
		{"login while authenticated redirects to dashboard", true, guard.ViewLogin, false, guard.ViewDashboard},
		{"register while authenticated redirects to dashboard", true, guard.ViewRegister, false, guard.ViewDashboard},
		{"login while unauthenticated is allowed", false, guard.ViewLogin, true, ""},
		{"register while unauthenticated is allowed", false, guard.ViewRegister, true, ""},
		{"landing is allowed either way (unauthenticated)", false, guard.ViewLanding, true, ""},
		{"landing is allowed either way (authenticated)", true, guard.ViewLanding, true, ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			d := guard.Decide(tc.authenticated, tc.target)
			assert.Equal(t, tc.wantAllow, d.Allow)
			assert.Equal(t, tc.wantRedirect, d.RedirectTo)
		})
	}
}

func TestDecideCarriesRequestedView(t *testing.T) {
	t.Parallel()

	d := guard.Decide(false, guard.ViewResults)
	assert.False(t, d.Allow)
	assert.Equal(t, guard.ViewLogin, d.RedirectTo)
	assert.Equal(t, guard.ViewResults, d.Requested, "redirect to login must preserve the requested view")
}

func TestClassifyUnknownViewFailsClosed(t *testing.T) {
	t.Parallel()

	assert.Equal(t, guard.ClassProtected, guard.Classify(guard.View("admin")))

	d := guard.Decide(false, guard.View("admin"))
	assert.False(t, d.Allow)
	assert.Equal(t, guard.ViewLogin, d.RedirectTo)
}
