// Package network serves plain-HTTP visitors of the TLS port with a redirect
// to the https:// URL they asked for.
package network

import (
	"bufio"
	"bytes"
	"net"
	"net/http"
	"sync"
)

// tlsHandshakeRecord is the first byte of every TLS ClientHello.
const tlsHandshakeRecord = 0x16

type redirectConn struct {
	net.Conn

	once    sync.Once
	pending []byte
}

// Read sniffs the first packet. A readable HTTP request is answered with a
// 307 to https and the connection closed; anything else is replayed as is.
func (c *redirectConn) Read(buf []byte) (int, error) {
	var sniffErr error
	c.once.Do(func() {
		sniffErr = c.sniff()
	})
	if sniffErr != nil {
		return 0, sniffErr
	}
	if len(c.pending) > 0 {
		n := copy(buf, c.pending)
		c.pending = c.pending[n:]
		return n, nil
	}
	return c.Conn.Read(buf)
}

func (c *redirectConn) sniff() error {
	first := make([]byte, 2048)
	n, err := c.Conn.Read(first)
	c.pending = first[:n]
	if err != nil || n == 0 || c.pending[0] == tlsHandshakeRecord {
		return err
	}
	req, err := http.ReadRequest(bufio.NewReader(bytes.NewReader(c.pending)))
	if err != nil {
		return nil
	}
	resp := http.Response{
		StatusCode: http.StatusTemporaryRedirect,
		ProtoMajor: 1,
		ProtoMinor: 1,
		Header:     http.Header{},
	}
	resp.Header.Set("Location", "https://"+req.Host+req.RequestURI)
	_ = resp.Write(c.Conn)
	c.pending = nil
	_ = c.Conn.Close()
	return net.ErrClosed
}

type redirectListener struct {
	net.Listener
}

func (l *redirectListener) Accept() (net.Conn, error) {
	conn, err := l.Listener.Accept()
	if err != nil {
		return nil, err
	}
	return &redirectConn{Conn: conn}, nil
}

// NewAutoHttpsListener wraps l so that plain-HTTP clients are redirected.
// Wrap the result with tls.NewListener.
func NewAutoHttpsListener(l net.Listener) net.Listener {
	return &redirectListener{Listener: l}
}
