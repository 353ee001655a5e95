// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"context"
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"github.com/luxfi/ids"
	"github.com/luxfi/log"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/luxfi/fhebridge"
	"github.com/luxfi/fhebridge/client"
	"github.com/luxfi/fhebridge/config"
	"github.com/luxfi/fhebridge/precompile"
	"github.com/luxfi/fhebridge/store"
	"github.com/luxfi/fhebridge/wire"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

var registry = fhebridge.MustNewRegistry(fhebridge.DefaultBindings()...)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "fhebridge",
	Short: "FHE ciphertext transport for EVM precompiles",
	Long: `fhebridge encodes FHE ciphertexts and public parameters into the frame
format the on-chain FHE precompiles expect, validates precompile
responses, and composes precompile calldata.`,
	Version: fmt.Sprintf("%s (built %s)", version, buildDate),
}

func init() {
	fs := rootCmd.PersistentFlags()
	fs.String(config.ConfigFileKey, "", "path to a JSON config file")
	fs.String(config.LogLevelKey, "", "log level (debug, info, warn, error)")
	fs.String(config.RPCURLKey, "", "RPC endpoint hosting the FHE precompiles")
	fs.Uint64(config.ChainIDKey, 0, "chain id; the parasol testnet id selects its endpoint when no RPC URL is set")
	fs.String(config.RedisAddrKey, "", "redis address backing the frame store")
	fs.String(config.StoreDirKey, "", "directory backing the file frame store")
	fs.Int(config.FrameCacheSizeKey, 0, "read-through frame cache capacity")
	fs.Duration(config.RetryTimeoutKey, 0, "how long transient RPC failures are retried")

	rootCmd.AddCommand(bindingsCmd)
	rootCmd.AddCommand(encodeCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(callCmd)
	rootCmd.AddCommand(paramsCmd)
	rootCmd.AddCommand(storeCmd)
	storeCmd.AddCommand(storePutCmd)
	storeCmd.AddCommand(storeGetCmd)

	encodeCmd.Flags().String("scheme", "", "scheme name (tfhe-bool, tfhe-shortint)")
	encodeCmd.Flags().String("paramset", "", "parameter set name (PN10QP27, PN11QP54, PN9QP28_STD128)")
	encodeCmd.Flags().String("in", "", "file holding the raw ciphertext bytes")

	callCmd.Flags().String("op", "fheAdd", "operation name")
	callCmd.Flags().StringArray("operand", nil, "file holding an encoded operand frame (repeatable, ordered)")

	paramsCmd.Flags().String("scheme", "", "scheme name (tfhe-bool, tfhe-shortint)")
	paramsCmd.Flags().String("paramset", "", "parameter set name (PN10QP27, PN11QP54, PN9QP28_STD128)")
}

// loadConfig builds the configuration from the persistent flags, the
// optional config file and FHEBRIDGE_* environment variables.
func loadConfig(cmd *cobra.Command) config.Config {
	v, err := config.BuildViper(cmd.Root().PersistentFlags())
	if err != nil {
		fatal(fmt.Errorf("failed to configure flags: %w", err))
	}
	cfg, err := config.NewConfig(v)
	if err != nil {
		fatal(err)
	}
	return cfg
}

func newLogger(level string) log.Logger {
	var zapLevel zapcore.Level
	switch strings.ToLower(level) {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		fatal(fmt.Errorf("unknown log level: %s", level))
	}
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
		zapcore.AddSync(os.Stderr),
		zapLevel,
	)
	return log.NewZapLogger(zap.New(core))
}

// rpcEndpoint resolves the endpoint to dial: an explicit RPC URL wins,
// otherwise a known chain id selects its public endpoint.
func rpcEndpoint(cfg config.Config) (string, error) {
	if cfg.RPCURL != "" {
		return cfg.RPCURL, nil
	}
	if cfg.ChainID == client.Parasol.ChainID {
		return client.Parasol.RPCURL, nil
	}
	return "", fmt.Errorf("no RPC endpoint configured; set --%s or --%s", config.RPCURLKey, config.ChainIDKey)
}

// openStore selects the frame store backend from the configuration.
func openStore(ctx context.Context, logger log.Logger, cfg config.Config) (store.Store, error) {
	switch {
	case cfg.RedisAddr != "":
		return store.NewRedisStore(ctx, logger, cfg.RedisAddr, cfg.FrameCacheSize)
	case cfg.StoreDir != "":
		return store.NewFileStore(cfg.StoreDir)
	default:
		return nil, fmt.Errorf("no frame store configured; set --%s or --%s", config.StoreDirKey, config.RedisAddrKey)
	}
}

var bindingsCmd = &cobra.Command{
	Use:   "bindings",
	Short: "List the registered scheme bindings",
	Run: func(cmd *cobra.Command, args []string) {
		for _, d := range registry.Descriptors() {
			fmt.Printf("%-14s %-16s version=%d payload=[%d,%d] tag=%d\n",
				d.Scheme, d.ParamSet, d.Version, d.MinPayloadLen, d.MaxPayloadLen, d.TagLen)
		}
	},
}

var encodeCmd = &cobra.Command{
	Use:   "encode",
	Short: "Encode raw ciphertext bytes into a frame",
	Run: func(cmd *cobra.Command, args []string) {
		schemeName, _ := cmd.Flags().GetString("scheme")
		paramSetName, _ := cmd.Flags().GetString("paramset")
		inPath, _ := cmd.Flags().GetString("in")

		desc, err := resolveByName(schemeName, paramSetName)
		if err != nil {
			fatal(err)
		}
		payload, err := os.ReadFile(inPath)
		if err != nil {
			fatal(fmt.Errorf("failed to read ciphertext: %w", err))
		}
		handle, err := fhebridge.NewCiphertextHandle(desc, payload)
		if err != nil {
			fatal(err)
		}
		frame, err := wire.EncodeCiphertext(handle, desc)
		if err != nil {
			fatal(err)
		}
		fmt.Println(hex.EncodeToString(frame))
	},
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <hex-frame>",
	Short: "Validate a frame and print its metadata",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		frame, err := hex.DecodeString(strings.TrimPrefix(args[0], "0x"))
		if err != nil {
			fatal(fmt.Errorf("invalid hex: %w", err))
		}
		validated, err := wire.ValidateInbound(frame, registry)
		if err != nil {
			fatal(err)
		}
		d := validated.Descriptor()
		fmt.Printf("kind:      %s\n", validated.Kind())
		fmt.Printf("binding:   %s/%s\n", d.Scheme, d.ParamSet)
		fmt.Printf("digest:    %s\n", validated.Digest())
		fmt.Printf("frame len: %d bytes\n", len(frame))
	},
}

var callCmd = &cobra.Command{
	Use:   "call",
	Short: "Compose precompile calldata from encoded operand frames",
	Run: func(cmd *cobra.Command, args []string) {
		opName, _ := cmd.Flags().GetString("op")
		operandPaths, _ := cmd.Flags().GetStringArray("operand")
		cfg := loadConfig(cmd)

		op, err := operationByName(opName)
		if err != nil {
			fatal(err)
		}

		operands := make([]precompile.Operand, 0, len(operandPaths))
		for _, path := range operandPaths {
			frame, err := os.ReadFile(path)
			if err != nil {
				fatal(fmt.Errorf("failed to read operand: %w", err))
			}
			validated, err := wire.ValidateInbound(frame, registry)
			if err != nil {
				fatal(err)
			}
			d := validated.Descriptor()
			operands = append(operands, precompile.Operand{
				Kind:     operandKind(validated.Kind()),
				Frame:    validated.Bytes(),
				Scheme:   d.Scheme,
				ParamSet: d.ParamSet,
			})
		}

		adapter := precompile.NewAdapter(registry)
		call, err := adapter.BuildCall(op, operands)
		if err != nil {
			fatal(err)
		}

		fmt.Printf("address:  %s\n", call.Address)
		fmt.Printf("calldata: 0x%s\n", hex.EncodeToString(call.Input))

		// Without an endpoint, printing the calldata is the whole job.
		if cfg.RPCURL == "" && cfg.ChainID == 0 {
			return
		}
		rpcURL, err := rpcEndpoint(cfg)
		if err != nil {
			fatal(err)
		}

		ctx := context.Background()
		logger := newLogger(cfg.LogLevel)
		c, err := client.Dial(ctx, logger, rpcURL, client.WithRetryTimeout(cfg.RetryTimeout))
		if err != nil {
			fatal(err)
		}
		raw, err := c.Call(ctx, call)
		if err != nil {
			fatal(err)
		}
		if len(operands) == 0 {
			fatal(fmt.Errorf("%s takes no bound operands; cannot infer result binding", op.Name))
		}
		want, err := registry.Resolve(operands[0].Scheme, operands[0].ParamSet)
		if err != nil {
			fatal(err)
		}
		result := adapter.ParseResult(op, raw, want)
		if !result.Ok() {
			fatal(fmt.Errorf("precompile response rejected (%s): %w", result.Code, result.Err))
		}
		fmt.Printf("result digest: %s\n", result.Handle.Digest())
	},
}

var paramsCmd = &cobra.Command{
	Use:   "params",
	Short: "Fetch the public parameters published for a binding",
	Run: func(cmd *cobra.Command, args []string) {
		schemeName, _ := cmd.Flags().GetString("scheme")
		paramSetName, _ := cmd.Flags().GetString("paramset")
		cfg := loadConfig(cmd)

		desc, err := resolveByName(schemeName, paramSetName)
		if err != nil {
			fatal(err)
		}
		rpcURL, err := rpcEndpoint(cfg)
		if err != nil {
			fatal(err)
		}

		ctx := context.Background()
		logger := newLogger(cfg.LogLevel)
		c, err := client.Dial(ctx, logger, rpcURL, client.WithRetryTimeout(cfg.RetryTimeout))
		if err != nil {
			fatal(err)
		}
		cache := client.NewParameterCache(c, precompile.NewAdapter(registry), client.DefaultParametersTTL)
		params, err := cache.Parameters(ctx, desc, false)
		if err != nil {
			fatal(err)
		}
		fmt.Printf("binding:    %s/%s\n", desc.Scheme, desc.ParamSet)
		fmt.Printf("log degree: %d\n", params.LogN())
		fmt.Printf("moduli:     %d\n", len(params.Moduli()))
		fmt.Printf("ks base:    %d\n", params.KeySwitchBase())
	},
}

var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Manage the configured frame store",
}

var storePutCmd = &cobra.Command{
	Use:   "put <frame-file>",
	Short: "Validate a frame and store it by digest",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig(cmd)
		frame, err := os.ReadFile(args[0])
		if err != nil {
			fatal(fmt.Errorf("failed to read frame: %w", err))
		}
		if _, err := wire.ValidateInbound(frame, registry); err != nil {
			fatal(err)
		}

		ctx := context.Background()
		s, err := openStore(ctx, newLogger(cfg.LogLevel), cfg)
		if err != nil {
			fatal(err)
		}
		defer s.Close()

		id, err := s.Put(ctx, frame)
		if err != nil {
			fatal(err)
		}
		fmt.Println(id.Hex())
	},
}

var storeGetCmd = &cobra.Command{
	Use:   "get <hex-digest>",
	Short: "Load a stored frame by digest and print it as hex",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig(cmd)
		raw, err := hex.DecodeString(strings.TrimPrefix(args[0], "0x"))
		if err != nil {
			fatal(fmt.Errorf("invalid digest hex: %w", err))
		}
		id, err := ids.ToID(raw)
		if err != nil {
			fatal(fmt.Errorf("invalid digest: %w", err))
		}

		ctx := context.Background()
		s, err := openStore(ctx, newLogger(cfg.LogLevel), cfg)
		if err != nil {
			fatal(err)
		}
		defer s.Close()

		frame, err := s.Get(ctx, id)
		if err != nil {
			fatal(err)
		}
		fmt.Println(hex.EncodeToString(frame))
	},
}

func resolveByName(schemeName, paramSetName string) (fhebridge.Descriptor, error) {
	for _, d := range registry.Descriptors() {
		if d.Scheme.String() == schemeName && d.ParamSet.String() == paramSetName {
			return d, nil
		}
	}
	return fhebridge.Descriptor{}, fmt.Errorf("no binding named %s/%s", schemeName, paramSetName)
}

func operationByName(name string) (precompile.Operation, error) {
	for _, op := range precompile.Operations() {
		if op.Name == name {
			return op, nil
		}
	}
	return precompile.Operation{}, fmt.Errorf("unknown operation %q", name)
}

func operandKind(kind wire.FrameKind) precompile.OperandKind {
	if kind == wire.KindKeySwitchKey {
		return precompile.OperandKeySwitchKey
	}
	return precompile.OperandCiphertext
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
