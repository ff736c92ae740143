package importer

import (
	"context"
	"fmt"
	"net"
	"regexp"
	"strconv"
	"strings"
)

var (
	literalBlockedBlocks  []*net.IPNet
	resolvedBlockedBlocks []*net.IPNet
	dottedQuadRe          = regexp.MustCompile(`^(\d+)\.(\d+)\.(\d+)\.(\d+)$`)
)

func init() {
	literal := []string{
		"10.0.0.0/8",
		"127.0.0.0/8",
		"0.0.0.0/8",
		"169.254.0.0/16",
		"192.168.0.0/16",
		"172.16.0.0/12",
	}
	literalBlockedBlocks = mustParseCIDRs(literal)
	resolvedBlockedBlocks = mustParseCIDRs(append(literal,
		"100.64.0.0/10", // carrier-grade NAT
		"::1/128",
		"fe80::/10",
		"fc00::/7",
	))
}

func mustParseCIDRs(cidrs []string) []*net.IPNet {
	blocks := make([]*net.IPNet, 0, len(cidrs))
	for _, cidr := range cidrs {
		_, block, err := net.ParseCIDR(cidr)
		if err != nil {
			panic(fmt.Errorf("parse error on %q: %v", cidr, err))
		}
		blocks = append(blocks, block)
	}
	return blocks
}

// IsBlockedHost reports whether hostname names a local or private target.
// Only the literal text is inspected; no DNS lookup happens here. Dotted
// quads with an out-of-range or zero-padded octet are refused as malformed.
func IsBlockedHost(hostname string) bool {
	h := strings.TrimSuffix(strings.ToLower(strings.TrimSpace(hostname)), ".")
	if h == "localhost" || strings.HasSuffix(h, ".localhost") || strings.HasSuffix(h, ".local") {
		return true
	}

	m := dottedQuadRe.FindStringSubmatch(h)
	if m == nil {
		return false
	}
	var octets [4]byte
	for i, part := range m[1:] {
		// Leading zeros read as octal in some resolvers.
		if len(part) > 1 && part[0] == '0' {
			return true
		}
		n, err := strconv.Atoi(part)
		if err != nil || n > 255 {
			return true
		}
		octets[i] = byte(n)
	}
	ip := net.IPv4(octets[0], octets[1], octets[2], octets[3])
	return inBlocks(ip, literalBlockedBlocks)
}

func inBlocks(ip net.IP, blocks []*net.IPNet) bool {
	for _, block := range blocks {
		if block.Contains(ip) {
			return true
		}
	}
	return false
}

func isPrivateIP(ip net.IP) bool {
	if ip.IsLoopback() || ip.IsLinkLocalUnicast() || ip.IsLinkLocalMulticast() || ip.IsUnspecified() {
		return true
	}
	return inBlocks(ip, resolvedBlockedBlocks)
}

// resolver is the subset of net.Resolver used by the strict dialer.
type resolver interface {
	LookupIPAddr(ctx context.Context, host string) ([]net.IPAddr, error)
}

// safeDialContext resolves the host, refuses private addresses and dials the
// first public address directly so the checked IP is the one connected to.
func safeDialContext(dialer *net.Dialer, r resolver) func(context.Context, string, string) (net.Conn, error) {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		host, port, err := net.SplitHostPort(addr)
		if err != nil {
			return nil, err
		}

		addrs, err := r.LookupIPAddr(ctx, host)
		if err != nil {
			return nil, err
		}

		var safeIP net.IP
		for _, a := range addrs {
			if !isPrivateIP(a.IP) {
				safeIP = a.IP
				break
			}
		}
		if safeIP == nil {
			return nil, &Error{Kind: KindBlockedHost, Message: fmt.Sprintf("host %s resolves to a private address", host)}
		}

		return dialer.DialContext(ctx, network, net.JoinHostPort(safeIP.String(), port))
	}
}
