// Package http provides JSON response helpers for handlers served by the
// framework router.
//
//	res := gohttp.NewResponse(w)
//	res.Success(map[string]any{"ok": true})   // 200 {"data": {...}}
//	res.NotFound()                           // 404 {"message": "Not found."}
//	res.FromError(err)                       // 404 for unknown ids, else 500
package http
