package soap

import "fmt"

// RequestError reports a transport-level failure: HTTP status outside
// 2xx or a SOAP fault. Timeouts and cancellations surface as the ctx
// error instead; neither is ever treated as an authorization outcome.
type RequestError struct {
	StatusCode int
	FaultCode  string
	Body       string
}

func (r *RequestError) Error() string {
	if r.FaultCode != "" {
		return fmt.Sprintf("soap fault %s (status %d): %s", r.FaultCode, r.StatusCode, r.Body)
	}
	return fmt.Sprintf("soap request failed with status %d: %s", r.StatusCode, r.Body)
}
