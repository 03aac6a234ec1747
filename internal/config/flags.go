// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 OpenRetail

package config

import (
	"errors"
	"flag"
	"net"
	"strconv"
	"strings"
	"time"
)

// NetAddress holds structured network address data for host and port.
// It implements the flag.Value interface.
type NetAddress struct {
	Host string
	Port int
}

// ParseFlags parses all configuration flags.
//
// Flags:
//
//	-a server address in format [host]:[port]
//	-d branch database DSN
//	-c/-config json file path with configs
//	-branch-key shared branch signing key
//	-token-issuer token issuer name
//	-token-duration token duration (e.g., "1h", "30m")
//	-request-timeout server request timeout (e.g., "30s", "1m")
//	-hash-key body integrity hash key
//	-branch-id agent branch identifier
//	-terminal-id agent terminal identifier
//	-queue-path agent local queue SQLite file
//	-server-url agent sync server base URL
//	-admin-address agent local admin API address
//	-batch-size agent dispatch batch size
//	-max-retries agent retry budget per item
//	-sync-interval agent background sync period
func ParseFlags() *StructuredConfig {
	var serverAddress, adminAddress NetAddress
	var databaseDSN string
	var jsonConfigPath string
	var branchKey string
	var tokenIssuer string
	var tokenDuration time.Duration
	var requestTimeout time.Duration
	var hashKey string
	var branchID int64
	var terminalID string
	var queuePath string
	var serverURL string
	var batchSize int
	var maxRetries int
	var syncInterval time.Duration

	flag.Var(&serverAddress, "a", "Net address host:port")
	flag.StringVar(&databaseDSN, "d", "", "Branch database DSN")
	flag.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	flag.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")
	flag.StringVar(&branchKey, "branch-key", "", "Shared branch signing key")
	flag.StringVar(&tokenIssuer, "token-issuer", "", "Token issuer")
	flag.DurationVar(&tokenDuration, "token-duration", 0, "Token duration (e.g., 1h, 30m)")
	flag.DurationVar(&requestTimeout, "request-timeout", 0, "Request timeout (e.g., 30s, 1m)")
	flag.StringVar(&hashKey, "hash-key", "", "Body integrity hash key")
	flag.Int64Var(&branchID, "branch-id", 0, "Agent branch identifier")
	flag.StringVar(&terminalID, "terminal-id", "", "Agent terminal identifier")
	flag.StringVar(&queuePath, "queue-path", "", "Agent local queue SQLite file")
	flag.StringVar(&serverURL, "server-url", "", "Agent sync server base URL")
	flag.Var(&adminAddress, "admin-address", "Agent local admin API address host:port")
	flag.IntVar(&batchSize, "batch-size", 0, "Agent dispatch batch size")
	flag.IntVar(&maxRetries, "max-retries", 0, "Agent retry budget per item")
	flag.DurationVar(&syncInterval, "sync-interval", 0, "Agent background sync period")

	flag.Parse()

	return &StructuredConfig{
		App: App{
			BranchKey:     branchKey,
			TokenIssuer:   tokenIssuer,
			TokenDuration: tokenDuration,
			HashKey:       hashKey,
		},
		Storage: Storage{
			DB: DB{
				DSN: databaseDSN,
			},
		},
		Server: Server{
			HTTPAddress:    serverAddress.String(),
			RequestTimeout: requestTimeout,
		},
		Agent: Agent{
			BranchID:     branchID,
			TerminalID:   terminalID,
			QueuePath:    queuePath,
			ServerURL:    serverURL,
			AdminAddress: adminAddress.String(),
			BatchSize:    batchSize,
			MaxRetries:   maxRetries,
			SyncInterval: syncInterval,
		},
		JSONFilePath: jsonConfigPath,
	}
}

// String returns a canonical host:port string for a NetAddress.
// If neither Host nor Port are set, it returns an empty string.
func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}

	return a.Host + ":" + strconv.Itoa(a.Port)
}

// Set parses the input string of form host:port and populates the NetAddress.
// It validates the port range, checks IP correctness unless host is "localhost",
// and returns an error if the format or values are invalid.
func (a *NetAddress) Set(s string) error {
	hostAndPort := strings.Split(s, ":")
	if len(hostAndPort) != 2 {
		return errors.New("need address in a form `host:port`")
	}

	host := hostAndPort[0]
	port, err := strconv.Atoi(hostAndPort[1])
	if err != nil {
		return err
	}

	if port < 1 {
		return errors.New("port number is a positive integer")
	}

	if host != "localhost" {
		ip := net.ParseIP(hostAndPort[0])
		if ip == nil {
			return errors.New("incorrect IP-address provided")
		}
	}

	a.Host = host
	a.Port = port
	return nil
}
