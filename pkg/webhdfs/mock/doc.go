// Package mock provides an in-memory WebHDFS gateway that speaks the
// namenode/datanode redirect protocol. It backs tests, the sandbox server
// and the client's mock runtime mode.
package mock
