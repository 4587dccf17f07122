// Package config provides configuration loading and validation for price-relay.
package config

import "errors"

var (
	// ErrRPCURLRequired indicates that feeder.rpc_url must be specified.
	ErrRPCURLRequired = errors.New("feeder.rpc_url must be specified")
	// ErrInvalidContractAddress indicates that feeder.contract_address is not a hex address.
	ErrInvalidContractAddress = errors.New("invalid contract address")
	// ErrKeystorePathRequired indicates that keystore path is required.
	ErrKeystorePathRequired = errors.New("keystore path is required")
	// ErrPasswordSourceRequired indicates that neither keystore_password nor keystore_password_env is set.
	ErrPasswordSourceRequired = errors.New("either keystore_password or keystore_password_env must be specified")
	// ErrNoSourcesEnabled indicates that no sources are enabled.
	ErrNoSourcesEnabled = errors.New("no sources enabled")
	// ErrSourceTypeRequired indicates that source type is required.
	ErrSourceTypeRequired = errors.New("source type is required")
	// ErrSourceNameRequired indicates that source name is required.
	ErrSourceNameRequired = errors.New("source name is required")
	// ErrUnknownSourceType indicates that the source type is unknown.
	ErrUnknownSourceType = errors.New("unknown source type")
	// ErrDuplicateSource indicates that a source name appears more than once.
	ErrDuplicateSource = errors.New("duplicate source name")
	// ErrSelectorSourceMissing indicates that the selector names a source that is not enabled.
	ErrSelectorSourceMissing = errors.New("selector references a source that is not enabled")
	// ErrTaskBaseURLRequired indicates that task.base_url is required when coordination is enabled.
	ErrTaskBaseURLRequired = errors.New("task.base_url must be specified when task.enabled is true")
	// ErrInvalidLogLevel indicates that the log level is invalid.
	ErrInvalidLogLevel = errors.New("invalid log level")
	// ErrInvalidLogFormat indicates that the log format is invalid.
	ErrInvalidLogFormat = errors.New("invalid log format")
)
