package server

// Route path constants
// All application routes are defined here to ensure consistency and prevent typos
const (
	// Public pages
	RouteIndex = "/"
	RouteLogin = "/login"

	// Auth routes
	RouteAuthLogin      = "/auth/login"
	RouteAuthLogout     = "/auth/logout"
	RouteSignup         = "/auth/signup"
	RouteForgotPassword = "/auth/forgot-password"
	RouteResetPassword  = "/auth/reset-password"

	// Protected pages
	RouteDashboard   = "/dashboard"
	RouteJobs        = "/jobs"
	RouteJobNew      = "/jobs/new"
	RouteJob         = "/jobs/{id}"
	RouteJobApply    = "/jobs/{id}/apply"
	RouteJobEdit     = "/jobs/{id}/edit"
	RouteJobDelete   = "/jobs/{id}/delete"
	RouteApplication = "/applications/{id}"
	RouteMessages    = "/messages"
	RouteMessagePane = "/messages/{id}"
	RouteSettings    = "/settings"

	// JSON API for page scripts
	RouteAPISession = "/api/session"
	RouteAPIHealthz = "/api/healthz"

	// Static asset routes (patterns)
	RouteStaticCSS = "/css/{file}"
	RouteStaticJS  = "/js/{file}"
)

// Notice codes carried on redirects; rendered as a banner on the login page.
const (
	NoticeSessionExpired = "session_expired"
	NoticeSignedOut      = "signed_out"
	NoticeSigninRequired = "signin_required"
	NoticeNotAuthorized  = "not_authorized"
)

// noticeMessages maps notice codes to the text shown in the banner.
var noticeMessages = map[string]string{
	NoticeSessionExpired: "Session expired. Please log in again.",
	NoticeSignedOut:      "You have been signed out.",
	NoticeSigninRequired: "Please log in to continue.",
	NoticeNotAuthorized:  "You are not authorized to view that page.",
}
