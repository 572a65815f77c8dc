// Package types defines the core types and interfaces used throughout gitboot.
// This includes the platform description produced by the detector, the identity
// and keypair requests consumed by the configurator and key provisioner, and
// the uniform command/result shapes every external process call goes through.
package types
