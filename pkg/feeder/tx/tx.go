package tx

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/rs/zerolog"

	"tc.com/price-relay/pkg/feeder/client"
	"tc.com/price-relay/pkg/feeder/contract"
	"tc.com/price-relay/pkg/feeder/keystore"
)

const (
	// DefaultGasLimit is the fixed gas limit for setTokenPrice.
	DefaultGasLimit uint64 = 140850
	// DefaultConfirmations is the number of blocks the receipt must be buried under.
	DefaultConfirmations uint64 = 1
	// DefaultPollInterval is how often the head is polled while waiting for confirmations.
	DefaultPollInterval = time.Second
)

// KeyLoader returns the signing key and its address.
type KeyLoader func() (*ecdsa.PrivateKey, common.Address, error)

// DialFunc opens a chain connection. The submitter closes it after each call.
type DialFunc func(ctx context.Context) (client.Backend, error)

// KeystoreLoader returns a KeyLoader that decrypts the keystore at path on each call.
func KeystoreLoader(path, password string) KeyLoader {
	return func() (*ecdsa.PrivateKey, common.Address, error) {
		return keystore.Load(path, password)
	}
}

// Submitter sends setTokenPrice transactions with a fixed gas limit.
type Submitter struct {
	address       common.Address
	abi           abi.ABI
	gasLimit      uint64
	confirmations uint64
	pollInterval  time.Duration
	timeout       time.Duration
	loadKey       KeyLoader
	dial          DialFunc
	logger        zerolog.Logger
}

// SubmitterConfig holds configuration for creating a Submitter.
type SubmitterConfig struct {
	ContractAddress common.Address
	GasLimit        uint64        // 0 selects DefaultGasLimit
	Confirmations   uint64        // 0 selects DefaultConfirmations
	PollInterval    time.Duration // 0 selects DefaultPollInterval
	Timeout         time.Duration // bounds Submit end to end, 0 = no bound
	LoadKey         KeyLoader
	Dial            DialFunc
	Logger          zerolog.Logger
}

// NewSubmitter validates cfg and parses the bundled contract ABI.
func NewSubmitter(cfg SubmitterConfig) (*Submitter, error) {
	if cfg.ContractAddress == (common.Address{}) {
		return nil, fmt.Errorf("%w: contract address is required", ErrInvalidParameter)
	}
	if cfg.LoadKey == nil {
		return nil, fmt.Errorf("%w: key loader is required", ErrInvalidParameter)
	}
	if cfg.Dial == nil {
		return nil, fmt.Errorf("%w: dial function is required", ErrInvalidParameter)
	}

	parsed, err := contract.Load()
	if err != nil {
		return nil, err
	}

	s := &Submitter{
		address:       cfg.ContractAddress,
		abi:           parsed,
		gasLimit:      cfg.GasLimit,
		confirmations: cfg.Confirmations,
		pollInterval:  cfg.PollInterval,
		timeout:       cfg.Timeout,
		loadKey:       cfg.LoadKey,
		dial:          cfg.Dial,
		logger:        cfg.Logger,
	}
	if s.gasLimit == 0 {
		s.gasLimit = DefaultGasLimit
	}
	if s.confirmations == 0 {
		s.confirmations = DefaultConfirmations
	}
	if s.pollInterval <= 0 {
		s.pollInterval = DefaultPollInterval
	}
	return s, nil
}

// Submit signs and sends setTokenPrice(price), then blocks until the
// transaction is mined and buried under the configured number of blocks.
//
// Returns the receipt if successful, or an error wrapping:
// - keystore.ErrKeystore if the key cannot be loaded
// - client.ErrTransport if the node cannot be reached
// - ErrSubmission if sending, mining or confirming fails
func (s *Submitter) Submit(ctx context.Context, price uint64) (*types.Receipt, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	key, from, err := s.loadKey()
	if err != nil {
		if !errors.Is(err, keystore.ErrKeystore) {
			err = fmt.Errorf("%w: %w", keystore.ErrKeystore, err)
		}
		return nil, err
	}

	backend, err := s.dial(ctx)
	if err != nil {
		if !errors.Is(err, client.ErrTransport) {
			err = fmt.Errorf("%w: %w", client.ErrTransport, err)
		}
		return nil, err
	}
	defer backend.Close()

	chainID, err := backend.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get chain id: %w", client.ErrTransport, err)
	}

	opts, err := bind.NewKeyedTransactorWithChainID(key, chainID)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create transactor: %w", ErrSubmission, err)
	}
	opts.Context = ctx
	opts.GasLimit = s.gasLimit

	bound := bind.NewBoundContract(s.address, s.abi, backend, backend, backend)

	s.logger.Info().
		Str("from", from.Hex()).
		Str("contract", s.address.Hex()).
		Uint64("price", price).
		Uint64("gas_limit", s.gasLimit).
		Str("chain_id", chainID.String()).
		Msg("Sending transaction")

	tx, err := bound.Transact(opts, contract.SetTokenPrice, new(big.Int).SetUint64(price))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to send transaction: %w", ErrSubmission, err)
	}

	s.logger.Info().
		Str("tx_hash", tx.Hash().Hex()).
		Uint64("nonce", tx.Nonce()).
		Msg("Transaction sent, waiting to be mined")

	receipt, err := bind.WaitMined(ctx, backend, tx)
	if err != nil {
		return nil, fmt.Errorf("%w: waiting for %s: %w", ErrSubmission, tx.Hash().Hex(), err)
	}

	if receipt.Status != types.ReceiptStatusSuccessful {
		return receipt, fmt.Errorf("%w: %w: tx=%s block=%s", ErrSubmission, ErrTransactionRejected,
			receipt.TxHash.Hex(), receipt.BlockNumber)
	}

	if err := s.waitConfirmations(ctx, backend, receipt); err != nil {
		return receipt, err
	}

	s.logger.Info().
		Str("tx_hash", receipt.TxHash.Hex()).
		Str("block_hash", receipt.BlockHash.Hex()).
		Str("block_number", receipt.BlockNumber.String()).
		Uint64("gas_used", receipt.GasUsed).
		Uint64("status", receipt.Status).
		Msg("Transaction confirmed")

	return receipt, nil
}

// waitConfirmations polls the chain head until the receipt's block is
// s.confirmations deep. The block containing the receipt counts as one.
func (s *Submitter) waitConfirmations(ctx context.Context, backend client.Backend, receipt *types.Receipt) error {
	mined := receipt.BlockNumber.Uint64()
	target := mined + s.confirmations - 1

	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	for {
		head, err := backend.BlockNumber(ctx)
		if err != nil {
			s.logger.Debug().Err(err).Msg("Failed to read block number")
		} else if head >= target {
			return nil
		} else {
			s.logger.Debug().
				Uint64("head", head).
				Uint64("target", target).
				Msg("Waiting for confirmations")
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: waiting for %d confirmations: %w", ErrSubmission, s.confirmations, ctx.Err())
		case <-ticker.C:
		}
	}
}
