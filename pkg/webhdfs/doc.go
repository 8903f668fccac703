// Package webhdfs is a client for WebHDFS-style HTTP gateways in front of a
// distributed filesystem.
//
// File contents move through a two-phase protocol: the namenode answers the
// initiating request with 307 Temporary Redirect and a Location pointing at
// a datanode, and the client repeats the request there with the payload.
// Upload (CREATE) and append (APPEND) send the whole local file in memory;
// download (OPEN) buffers the response and writes the destination once.
//
// A Client keeps a remote working directory and a local working directory.
// Only Cd and LocalCd change them. Every operation produces one Result that
// is handed to the configured Reporter and returns a typed error:
// *RemoteError, *TransportError or *LocalIOError. A Client is not safe for
// concurrent use.
package webhdfs
