// Package consoleclient is the entry point for building a console.Client.
//
// It normalizes the endpoint, picks a token store and wires the request
// executor, the resource clients and the session invalidation bus together.
//
// Quick start
//
//	import (
//	  "context"
//	  "log"
//
//	  "github.com/harvestline/agriconsole/pkg/console"
//	  "github.com/harvestline/agriconsole/pkg/consoleclient"
//	)
//
//	func example() {
//	  ctx := context.Background()
//
//	  // Session persisted to disk, shared with the agriconsole CLI.
//	  cli, err := consoleclient.NewWithCredentialsFile("https://api.example.com", "/home/me/.agriconsole/credentials.yml")
//	  if err != nil { log.Fatal(err) }
//
//	  // React to forced logouts. Every 401 clears the token and emits once.
//	  stop := cli.Signals().Subscribe(func() { log.Println("session expired") })
//	  defer stop()
//
//	  if _, err := cli.Auth().Login(ctx, console.PortalAdmin, "admin@example.com", "secret"); err != nil {
//	    log.Fatal(err)
//	  }
//
//	  farmers, err := cli.Farmers().List(ctx, &console.QueryParams{PerPage: 20})
//	  if err != nil { log.Fatal(err) }
//	  _ = farmers
//	}
//
// # Retries
//
// Calls that fail with 429, 5xx or a transport error are retried up to
// Config.MaxRetries times, waiting RetryBaseDelay * 2^n before retry n.
// A zero MaxRetries means console.DefaultMaxRetries; use console.NoRetries
// for a single attempt. Uploads are never retried.
package consoleclient
