package bridge

// Package bridge carries named commands from the view to the backend. Arguments
// and results cross the boundary as JSON so the same commands can be served
// in-process (Router) or over HTTP (NewHTTPHandler / HTTPClient).
