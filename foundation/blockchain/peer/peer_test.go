package peer_test

import (
	"bufio"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/ardanlabs/floodchain/foundation/blockchain/peer"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func ev(v string, args ...any) {}

func Test_CRUD(t *testing.T) {
	type table struct {
		name  string
		hosts []string
	}

	tt := []table{
		{
			name:  "basic",
			hosts: []string{"host1", "host2", "host3"},
		},
	}

	for _, tst := range tt {
		f := func(t *testing.T) {
			ps := peer.NewPeerSet()

			for _, host := range tst.hosts {
				c1, c2 := net.Pipe()
				defer c1.Close()
				defer c2.Close()

				if !ps.Add(peer.New(host, c1)) {
					t.Fatalf("Test %s:\tShould be able to add host %s.", tst.name, host)
				}
			}

			c1, c2 := net.Pipe()
			defer c1.Close()
			defer c2.Close()
			if ps.Add(peer.New("host1", c1)) {
				t.Fatalf("Test %s:\tShould not add the same host twice.", tst.name)
			}

			if !ps.Exists("host2") || ps.Exists("host4") {
				t.Fatalf("Test %s:\tShould report membership by host.", tst.name)
			}

			peers := ps.Copy("")
			if len(peers) != len(tst.hosts) {
				t.Logf("Test %s:\tgot: %d", tst.name, len(peers))
				t.Logf("Test %s:\texp: %d", tst.name, len(tst.hosts))
				t.Fatalf("Test %s:\tShould get back the right peers.", tst.name)
			}

			peers = ps.Copy("host2")
			if len(peers) != len(tst.hosts)-1 {
				t.Logf("Test %s:\tgot: %d", tst.name, len(peers))
				t.Logf("Test %s:\texp: %d", tst.name, len(tst.hosts)-1)
				t.Fatalf("Test %s:\tShould get back the right peers.", tst.name)
			}

			for _, p := range ps.Copy("") {
				if p.Host == "host3" {
					ps.Remove(p)
				}
			}
			if ps.Exists("host3") || ps.Len() != len(tst.hosts)-1 {
				t.Fatalf("Test %s:\tShould be able to remove a peer.", tst.name)
			}
		}

		t.Run(tst.name, f)
	}
}

func Test_Send(t *testing.T) {
	t.Log("Given the need to write lines to a peer stream.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen sending from many goroutines.", testID)
		{
			c1, c2 := net.Pipe()
			defer c1.Close()
			defer c2.Close()

			p := peer.New("remote", c1)

			const lines = 20
			for i := 0; i < lines; i++ {
				go p.Send([]byte("0123456789abcdef\n"))
			}

			scanner := bufio.NewScanner(c2)
			for i := 0; i < lines; i++ {
				if !scanner.Scan() {
					t.Fatalf("\t%s\tTest %d:\tShould be able to read line %d: %v", failed, testID, i, scanner.Err())
				}
				if scanner.Text() != "0123456789abcdef" {
					t.Fatalf("\t%s\tTest %d:\tShould never interleave lines: %q", failed, testID, scanner.Text())
				}
			}
			t.Logf("\t%s\tTest %d:\tShould never interleave lines.", success, testID)
		}
	}
}

func Test_Dial(t *testing.T) {
	t.Log("Given the need to connect to peers.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen the peer is listening.", testID)
		{
			l, err := net.Listen("tcp", "127.0.0.1:0")
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to listen: %v", failed, testID, err)
			}
			defer l.Close()

			conn, err := peer.Dial(l.Addr().String(), peer.DialConfig{Attempts: 3, Delay: 10 * time.Millisecond}, ev)
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to connect: %v", failed, testID, err)
			}
			conn.Close()
			t.Logf("\t%s\tTest %d:\tShould be able to connect.", success, testID)
		}

		testID++
		t.Logf("\tTest %d:\tWhen nothing is listening.", testID)
		{
			l, err := net.Listen("tcp", "127.0.0.1:0")
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to listen: %v", failed, testID, err)
			}
			host := l.Addr().String()
			l.Close()

			var attempts int
			count := func(v string, args ...any) {
				if strings.HasPrefix(v, "peer: Dial: attempt") {
					attempts++
				}
			}

			if _, err := peer.Dial(host, peer.DialConfig{Attempts: 3, Delay: 10 * time.Millisecond}, count); err == nil {
				t.Fatalf("\t%s\tTest %d:\tShould fail to connect.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould fail to connect.", success, testID)

			if attempts != 3 {
				t.Fatalf("\t%s\tTest %d:\tShould try 3 times: got %d", failed, testID, attempts)
			}
			t.Logf("\t%s\tTest %d:\tShould try 3 times.", success, testID)
		}
	}
}
