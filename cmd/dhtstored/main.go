// Copyright 2024 The Erigon Authors
// This file is part of Erigon.
//
// Erigon is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Erigon is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with Erigon. If not, see <http://www.gnu.org/licenses/>.

// Command dhtstored runs the storage RPC core's gRPC-fronted server, and
// doubles as a thin DHT-level client for exercising a put fan-out against
// a running set of peers.
package main

import (
	"context"
	"encoding/hex"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/erigontech/dhtstore/bloom"
	"github.com/erigontech/dhtstore/client"
	"github.com/erigontech/dhtstore/client/aggregate"
	"github.com/erigontech/dhtstore/config"
	"github.com/erigontech/dhtstore/data"
	"github.com/erigontech/dhtstore/key"
	"github.com/erigontech/dhtstore/rpc"
	"github.com/erigontech/dhtstore/store/memstore"
	"github.com/erigontech/dhtstore/transport/dhtrpc"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dhtstored",
		Short: "Storage RPC core server and DHT-level put client for a Kademlia-style overlay",
	}
	cmd.AddCommand(newServeCmd(), newPutCmd())
	return cmd
}

func newServeCmd() *cobra.Command {
	var (
		listenAddr    string
		configPath    string
		falsePositive float64
		logLevel      string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the storage RPC core server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Default()
			if configPath != "" {
				loaded, err := config.Load(afero.NewOsFs(), configPath)
				if err != nil {
					return err
				}
				cfg = loaded
			}
			if cmd.Flags().Changed("listen") {
				cfg.ListenAddr = listenAddr
			}
			if cmd.Flags().Changed("bloom-false-positive-rate") {
				cfg.Bloom.FalsePositiveRate = falsePositive
			}
			if cmd.Flags().Changed("log-level") {
				cfg.LogLevel = logLevel
			}
			return serve(cfg)
		},
	}

	cmd.Flags().StringVar(&listenAddr, "listen", "127.0.0.1:7654", "gRPC listen address")
	cmd.Flags().StringVar(&configPath, "config", "", "path to a TOML node configuration file")
	cmd.Flags().Float64Var(&falsePositive, "bloom-false-positive-rate", 0.01, "bloom filter target false positive rate")
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "zap log level (debug, info, warn, error)")
	return cmd
}

func serve(cfg config.Config) error {
	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	bloomFactory := bloom.NewFactory(cfg.Bloom.FalsePositiveRate)
	metrics := rpc.NewMetrics(nil)
	st := memstore.New(nil)
	server := rpc.NewServer(st, bloomFactory, logger, metrics, cfg.Add.MaxListModeRetries)

	lis, err := net.Listen("tcp", cfg.ListenAddr)
	if err != nil {
		return err
	}

	grpcServer := grpc.NewServer()
	dhtrpc.RegisterStorageRPCServer(grpcServer, server)

	logger.Info("dhtstored listening", zap.String("addr", cfg.ListenAddr))
	return grpcServer.Serve(lis)
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}
	return cfg.Build()
}

// newPutCmd builds the "put" subcommand: a DHT-level put driven by
// client.DHTClient/aggregate.Registry (§4.8) fanned out over a set of
// already-running peers, dialed over the same gRPC transport the server
// side registers.
func newPutCmd() *cobra.Command {
	var (
		configPath        string
		peerAddrs         []string
		locationHex       string
		domainHex         string
		contentHex        string
		value             string
		replicationFactor int
		minAcks           int
		timeout           time.Duration
	)

	cmd := &cobra.Command{
		Use:   "put",
		Short: "Fan a PUT out to a set of peers and wait for the DHT-level put future to settle",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Default()
			if configPath != "" {
				loaded, err := config.Load(afero.NewOsFs(), configPath)
				if err != nil {
					return err
				}
				cfg = loaded
			}
			r := cfg.Aggregate.ReplicationFactor
			if cmd.Flags().Changed("replication-factor") {
				r = replicationFactor
			}
			min := cfg.Aggregate.Min
			if cmd.Flags().Changed("min") {
				min = minAcks
			}
			if len(peerAddrs) == 0 {
				return fmt.Errorf("dhtstored put: at least one --peer is required")
			}

			location, err := parseNumber160(locationHex)
			if err != nil {
				return fmt.Errorf("--location: %w", err)
			}
			domain, err := parseNumber160(domainHex)
			if err != nil {
				return fmt.Errorf("--domain: %w", err)
			}
			content, err := parseNumber160(contentHex)
			if err != nil {
				return fmt.Errorf("--content: %w", err)
			}

			return runPut(cmd.Context(), putOptions{
				peerAddrs:         peerAddrs,
				location:          location,
				domain:            domain,
				content:           content,
				value:             []byte(value),
				replicationFactor: r,
				min:               min,
				resultCacheSize:   cfg.Aggregate.ResultCacheSize,
				timeout:           timeout,
			})
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "path to a TOML node configuration file (aggregate replication_factor/min/result_cache_size)")
	cmd.Flags().StringArrayVar(&peerAddrs, "peer", nil, "gRPC address of a peer to fan the PUT out to (repeatable)")
	cmd.Flags().StringVar(&locationHex, "location", "", "hex-encoded 20-byte locationKey")
	cmd.Flags().StringVar(&domainHex, "domain", "", "hex-encoded 20-byte domainKey")
	cmd.Flags().StringVar(&contentHex, "content", "", "hex-encoded 20-byte contentKey")
	cmd.Flags().StringVar(&value, "value", "", "payload to store")
	cmd.Flags().IntVar(&replicationFactor, "replication-factor", 0, "overrides aggregate.replication_factor")
	cmd.Flags().IntVar(&minAcks, "min", 0, "overrides aggregate.min")
	cmd.Flags().DurationVar(&timeout, "timeout", 10*time.Second, "deadline for the DHT put future to settle")
	return cmd
}

func parseNumber160(hexStr string) (key.Number160, error) {
	if hexStr == "" {
		return key.Zero, nil
	}
	b, err := hex.DecodeString(hexStr)
	if err != nil {
		return key.Zero, err
	}
	return key.Number160FromBytes(b)
}

type putOptions struct {
	peerAddrs         []string
	location          key.Number160
	domain            key.Number160
	content           key.Number160
	value             []byte
	replicationFactor int
	min               int
	resultCacheSize   int
	timeout           time.Duration
}

// runPut dials every peer address, derives each peer's identifier by
// content-hashing its address (this CLI has no separate node-ID
// registry), and drives DHTClient.PutDHT over them (§4.8).
func runPut(ctx context.Context, opt putOptions) error {
	ctx, cancel := context.WithTimeout(ctx, opt.timeout)
	defer cancel()

	transports := make(map[key.Number160]client.Transport, len(opt.peerAddrs))
	candidates := make([]key.Number160, 0, len(opt.peerAddrs))
	for _, addr := range opt.peerAddrs {
		conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
		if err != nil {
			return fmt.Errorf("dial %s: %w", addr, err)
		}
		defer conn.Close() //nolint:errcheck

		peerID := key.HashContent([]byte(addr))
		transports[peerID] = dhtrpc.NewTransport(dhtrpc.NewStorageRPCClient(conn), nil)
		candidates = append(candidates, peerID)
	}

	reg, err := aggregate.NewRegistry(opt.resultCacheSize)
	if err != nil {
		return fmt.Errorf("dhtstored put: %w", err)
	}

	dht := client.NewDHTClient(nil, func(peer key.Number160) client.Transport {
		return transports[peer]
	})

	dm := data.NewDataMap()
	dm.Put(key.Number640{Location: opt.location, Domain: opt.domain, Content: opt.content}, data.Data{Payload: opt.value})

	future, err := dht.PutDHT(ctx, "cli-put", reg, candidates, opt.replicationFactor, opt.min, &client.PutBuilder{Data: dm})
	if err != nil {
		return fmt.Errorf("dhtstored put: %w", err)
	}

	outcome, err := future.Join(ctx)
	if err != nil {
		return fmt.Errorf("dhtstored put: future did not settle: %w", err)
	}
	fmt.Printf("put outcome: %s (%d/%d peers acknowledged)\n", outcome, successCount(future), len(candidates))
	if outcome != aggregate.OK {
		return fmt.Errorf("dhtstored put: did not reach min acknowledgements")
	}
	return nil
}

func successCount(f *aggregate.PutFuture) int {
	n := 0
	for _, r := range f.Results() {
		if r.Err == nil && !r.Cancelled {
			n++
		}
	}
	return n
}
