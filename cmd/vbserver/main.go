/*
Vbserver starts a Verbly server and begins listening for new connections.

Usage:

	vbserver [flags] -w FILE [-w FILE ...]

Once started, the Verbly server will listen for HTTP requests and respond to
them using REST protocol. By default, it will listen on localhost:8080. This can
be changed with the --listen/-l flag or the VERBLY_LISTEN_ADDRESS environment
variable. Every flag has an environment variable it overrides; see
server.ConfigFromEnv.

If a JWT token secret is not given, one will be automatically generated. As a
consequence, in this mode of operation all tokens are rendered invalid as soon
as the server shuts down. This is suitable for testing, but must be given via
either CLI flags or environment variable if running in production.

On start, a user "admin" with password "password" is created if no user by that
name exists.

The flags are:

	-v, --version
		Give the current version of the Verbly server and then exit.

	-l, --listen LISTEN_ADDRESS
		Listen on the given address. Must be in BIND_ADDRESS:PORT or :PORT
		format. Defaults to VERBLY_LISTEN_ADDRESS, then localhost:8080.

	-s, --secret TOKEN_SECRET
		Use the provided secret for signing JWT tokens. If there are less than
		32 bytes in the secret, it will be repeated until it is. The maximum
		size is 64 bytes. Defaults to VERBLY_TOKEN_SECRET.

	--db DRIVER[:PARAMS]
		Use the given DB connection string. DRIVER must be one of inmem or
		sqlite. sqlite needs the path to the data directory, such as
		sqlite:path/to/db_dir. Defaults to VERBLY_DATABASE, then inmem.

	-w, --world FILE
		Serve the world in the given VBW file. May be given more than once.
		Defaults to the comma-separated list in VERBLY_WORLDS.

	--debug
		Log at debug level.
*/
package main

import (
	"context"
	"crypto/rand"
	"fmt"
	"os"

	"github.com/dekarrin/verbly/internal/version"
	"github.com/dekarrin/verbly/server"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	flagVersion = pflag.BoolP("version", "v", false, "Give the current version of the Verbly server and then exit.")
	flagListen  = pflag.StringP("listen", "l", "", "Listen on the given address.")
	flagSecret  = pflag.StringP("secret", "s", "", "Use the given secret for token generation.")
	flagDB      = pflag.String("db", "", "Use the given DB connection string.")
	flagWorlds  = pflag.StringArrayP("world", "w", nil, "Serve the world in the given VBW file.")
	flagDebug   = pflag.Bool("debug", false, "Log at debug level.")
)

func main() {
	pflag.Parse()

	if *flagVersion {
		fmt.Printf("%s (Verbly v%s)\n", version.ServerCurrent, version.Current)
		return
	}

	if len(pflag.Args()) > 0 {
		fmt.Fprintf(os.Stderr, "Too many arguments\nDo -h for help.\n")
		os.Exit(1)
	}

	logger, err := newLogger(*flagDebug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		os.Exit(1)
	}
	defer logger.Sync()

	cfg, err := server.ConfigFromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\nDo -h for help.\n", err.Error())
		os.Exit(1)
	}

	if pflag.Lookup("listen").Changed {
		cfg.ListenAddress = *flagListen
	}
	if pflag.Lookup("db").Changed {
		cfg.DB, err = server.ParseDBConnString(*flagDB)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Not a valid DB string: %s\nDo -h for help.\n", err.Error())
			os.Exit(1)
		}
	}
	if pflag.Lookup("world").Changed {
		cfg.Worlds = *flagWorlds
	}
	if pflag.Lookup("secret").Changed {
		cfg.TokenSecret = []byte(*flagSecret)
	}

	if len(cfg.TokenSecret) > 0 {
		for len(cfg.TokenSecret) < server.MinSecretSize {
			cfg.TokenSecret = append(cfg.TokenSecret, cfg.TokenSecret...)
		}
	} else {
		// use all 64 possible bytes if doing a generated secret
		cfg.TokenSecret = make([]byte, server.MaxSecretSize)
		if _, err := rand.Read(cfg.TokenSecret); err != nil {
			fmt.Fprintf(os.Stderr, "Could not generate token secret: %s\n", err.Error())
			os.Exit(1)
		}

		// the user should know their secret might be bad
		logger.Warn("using generated token secret; all tokens issued will become invalid at shutdown")
	}

	srv, err := server.New(cfg, logger)
	if err != nil {
		logger.Fatal("could not start server", zap.Error(err))
	}
	defer srv.Close()
	logger.Debug("server initialized", zap.Int("worlds", len(srv.Backend.Worlds)))

	// immediately create the admin user so we have someone we can log in as.
	created, err := srv.EnsureAdmin(context.Background(), "admin", "password")
	if err != nil {
		logger.Error("could not create initial admin user", zap.Error(err))
		os.Exit(2)
	}
	if created {
		logger.Info("added initial admin user with password 'password'")
	}

	logger.Info("starting Verbly server", zap.String("version", version.ServerCurrent))
	if err := srv.ServeForever(); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func newLogger(debug bool) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	if debug {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}
