// Package otpgateway provides an HTTP implementation of the
// sessioncore.OtpChannelClient contract.
//
// The client POSTs one-time-password dispatch requests as JSON to an external
// delivery gateway and treats any 2xx status as accepted. It carries no retry
// or queueing logic; callers that need delivery guarantees should put a proper
// messaging layer in front of the gateway.
package otpgateway
