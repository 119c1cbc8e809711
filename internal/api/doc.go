// Package api provides REST clients for the market data and catalog services.
//
// Market data (Universalis):
//   - https://universalis.app/api/v2
//   - /data-centers, /worlds, /marketable, /history/{world}/{ids}, /{world}/{id}
//
// Catalog (XIVAPI):
//   - https://xivapi.com
//   - /search?indexes=Item&page=N
//
// Transient failures (transport errors, 5xx, 429) are retried according to a RetryPolicy.
// Malformed responses surface as *ResponseShapeError and are never retried.
package api
