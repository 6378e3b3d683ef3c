// Package redis provides helpers for connecting to a Redis server:
// a Connect function that retries using the supplied configuration, and
// a health-check helper for liveness and readiness probes.
//
// Configuration is described by the Config struct whose fields are
// populated from environment variables via github.com/caarlos0/env.
//
//	ctx := context.Background()
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//	    // handle error, probably terminate the application
//	}
//	defer client.Close()
//
//	checker := redis.Healthcheck(client)
package redis
