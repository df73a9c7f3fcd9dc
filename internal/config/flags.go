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

// ParseFlags parses all configuration flags from args (without the program
// name). Both binaries share one flag set; each reads the fields it needs.
//
// Flags:
//
//	-a server address in format [host]:[port]
//	-d database DSN
//	-c/-config json file path with configs
//	-token-sign-key token signing key
//	-token-issuer token issuer name
//	-token-duration token duration (e.g., "1h", "30m")
//	-request-timeout server request timeout (e.g., "30s", "1m")
//	-issue-token print a token for the given user id and exit
//	-r remote document store URL
//	-t client bearer token
//	-collection remote collection name
//	-adapter-timeout client request timeout
//	-mirror-backend sqlite or bolt
//	-mirror-path mirror database file
//	-cache-ttl memory cache time-to-live
//	-mirror-stale-after mirror staleness bound
//	-refresh-interval background refresh period
//	-log-file client log file
func ParseFlags(args []string) (*StructuredConfig, error) {
	var serverAddress NetAddress
	var databaseDSN string
	var jsonConfigPath string
	var tokenSignKey, tokenIssuer, issueTokenFor string
	var tokenDuration, requestTimeout time.Duration
	var remoteAddress, token, collection string
	var adapterTimeout time.Duration
	var mirrorBackend, mirrorPath string
	var cacheTTL, mirrorStaleAfter, refreshInterval time.Duration
	var logFile string

	fs := flag.NewFlagSet("go-list-keeper", flag.ContinueOnError)
	fs.Var(&serverAddress, "a", "Net address host:port")
	fs.StringVar(&databaseDSN, "d", "", "Database DSN")
	fs.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	fs.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")
	fs.StringVar(&tokenSignKey, "token-sign-key", "", "Token signing key")
	fs.StringVar(&tokenIssuer, "token-issuer", "", "Token issuer")
	fs.DurationVar(&tokenDuration, "token-duration", 0, "Token duration (e.g., 1h, 30m)")
	fs.DurationVar(&requestTimeout, "request-timeout", 0, "Request timeout (e.g., 30s, 1m)")
	fs.StringVar(&issueTokenFor, "issue-token", "", "Print a signed token for the user id and exit")
	fs.StringVar(&remoteAddress, "r", "", "Remote document store URL")
	fs.StringVar(&token, "t", "", "Bearer token")
	fs.StringVar(&collection, "collection", "", "Remote collection name")
	fs.DurationVar(&adapterTimeout, "adapter-timeout", 0, "Client request timeout")
	fs.StringVar(&mirrorBackend, "mirror-backend", "", "Mirror backend: sqlite or bolt")
	fs.StringVar(&mirrorPath, "mirror-path", "", "Mirror database file")
	fs.DurationVar(&cacheTTL, "cache-ttl", 0, "Memory cache time-to-live")
	fs.DurationVar(&mirrorStaleAfter, "mirror-stale-after", 0, "Mirror staleness bound")
	fs.DurationVar(&refreshInterval, "refresh-interval", 0, "Background refresh period")
	fs.StringVar(&logFile, "log-file", "", "Client log file")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	return &StructuredConfig{
		App: App{
			Token:         token,
			TokenSignKey:  tokenSignKey,
			TokenIssuer:   tokenIssuer,
			TokenDuration: tokenDuration,
			LogFile:       logFile,
			IssueTokenFor: issueTokenFor,
		},
		Cache: Cache{
			TTL:              cacheTTL,
			MirrorStaleAfter: mirrorStaleAfter,
		},
		Storage: Storage{
			DB: DB{
				DSN: databaseDSN,
			},
			Mirror: Mirror{
				Backend: mirrorBackend,
				Path:    mirrorPath,
			},
		},
		Server: Server{
			HTTPAddress:    serverAddress.String(),
			RequestTimeout: requestTimeout,
		},
		Adapter: Adapter{
			HTTPAddress:    remoteAddress,
			RequestTimeout: adapterTimeout,
			Collection:     collection,
		},
		Workers:      Workers{RefreshInterval: refreshInterval},
		JSONFilePath: jsonConfigPath,
	}, nil
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

	if host != "localhost" && host != "" {
		ip := net.ParseIP(hostAndPort[0])
		if ip == nil {
			return errors.New("incorrect IP-address provided")
		}
	}

	a.Host = host
	a.Port = port
	return nil
}
