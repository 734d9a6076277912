package internaldefs

import (
	sessioncore "github.com/carenet-id/sessioncore"
)

// CounterDef defines a public type used by sessioncore APIs.
//
// CounterDef instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type CounterDef struct {
	ID   sessioncore.MetricID
	Name string
	Help string
}

// HistogramDef defines a public type used by sessioncore APIs.
//
// HistogramDef instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type HistogramDef struct {
	ID   sessioncore.MetricID
	Name string
	Help string
}

// CounterDefs is an exported constant or variable used by the session core.
var CounterDefs = []CounterDef{
	{ID: sessioncore.MetricSessionSuccess, Name: "sessioncore_session_success_total", Help: "Successful password session creations."},
	{ID: sessioncore.MetricSessionFailure, Name: "sessioncore_session_failure_total", Help: "Failed password session creations."},
	{ID: sessioncore.MetricSessionLockedOut, Name: "sessioncore_session_locked_out_total", Help: "Session creations refused for locked users."},
	{ID: sessioncore.MetricLockoutRecorded, Name: "sessioncore_lockout_recorded_total", Help: "Recorded credential failures in the lockout tracker."},
	{ID: sessioncore.MetricLogout, Name: "sessioncore_logout_total", Help: "Completed logout operations."},
	{ID: sessioncore.MetricTokenBlacklisted, Name: "sessioncore_token_blacklisted_total", Help: "Access tokens written to the blacklist."},
	{ID: sessioncore.MetricOtpSent, Name: "sessioncore_otp_sent_total", Help: "One-time passwords dispatched."},
	{ID: sessioncore.MetricOtpSendFailure, Name: "sessioncore_otp_send_failure_total", Help: "One-time-password dispatch failures."},
	{ID: sessioncore.MetricOtpValidated, Name: "sessioncore_otp_validated_total", Help: "Successful one-time-password validations."},
	{ID: sessioncore.MetricOtpRejected, Name: "sessioncore_otp_rejected_total", Help: "Rejected one-time-password validations."},
}

// HistogramDefs is an exported constant or variable used by the session core.
var HistogramDefs = []HistogramDef{
	{ID: sessioncore.MetricNewSessionLatency, Name: "sessioncore_new_session_latency_seconds", Help: "New session latency histogram."},
}

// HistogramBounds is an exported constant or variable used by the session core.
var HistogramBounds = []string{
	"0.005",
	"0.01",
	"0.025",
	"0.05",
	"0.1",
	"0.25",
	"0.5",
	"+Inf",
}

// HistogramBoundSuffix is an exported constant or variable used by the session core.
var HistogramBoundSuffix = []string{
	"0_005",
	"0_01",
	"0_025",
	"0_05",
	"0_1",
	"0_25",
	"0_5",
	"inf",
}

// NormalizeBuckets describes the normalizebuckets operation and its observable behavior.
//
// NormalizeBuckets may return an error when input validation, dependency calls, or security checks fail.
// NormalizeBuckets does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets describes the cumulativebuckets operation and its observable behavior.
//
// CumulativeBuckets may return an error when input validation, dependency calls, or security checks fail.
// CumulativeBuckets does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
