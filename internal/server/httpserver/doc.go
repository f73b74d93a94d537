// Package httpserver provides the HTTP/HTTPS gateway for craftgate.
//
// The gateway is built on net/http:
//
//   - Auth endpoint: /api/auth/login
//   - Game endpoints: /api/players, /api/server/info, /api/broadcast,
//     /api/player/{message,kick,gamemode}, /api/server/command
//   - Operational endpoints: /health, /metrics
//
// Every request passes through Recover, RequestID, Audit, CORS, RateLimit
// and Metrics, in that order. Routes other than login, health and
// preflight also pass through Auth.
package httpserver
