// Package gateway abstracts the local RPA automation service's HTTP API.
//
// The service drives real browser profiles; this package only submits job
// descriptions (an ordered step list plus a static options block) and hands
// the raw structured response back to the checker. It holds exactly one
// lazily-created HTTP session shared by all concurrent jobs, applies a
// single configured timeout per call, and performs no retries.
package gateway
