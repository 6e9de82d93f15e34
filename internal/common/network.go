package common

import "net"

// LANAddresses returns the IPv4 addresses of every interface that is up and
// not a loopback or point-to-point link
func LANAddresses() []string {
	var ips []string

	interfaces, err := net.Interfaces()
	if err != nil {
		return ips
	}

	for _, i := range interfaces {
		if i.Flags&net.FlagLoopback != 0 ||
			i.Flags&net.FlagUp == 0 ||
			i.Flags&net.FlagPointToPoint != 0 {
			continue
		}

		addrs, err := i.Addrs()
		if err != nil {
			continue
		}
		for _, addr := range addrs {
			if ipnet, ok := addr.(*net.IPNet); ok && !ipnet.IP.IsLoopback() && ipnet.IP.To4() != nil {
				ips = append(ips, ipnet.IP.String())
			}
		}
	}
	return ips
}

// AccessibleURLs lists the URLs a listener bound to addr can be reached at.
// A wildcard host expands to localhost plus every LAN address.
func AccessibleURLs(addr string) []string {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return []string{"http://" + addr}
	}

	ip := net.ParseIP(host)
	if host != "" && (ip == nil || !ip.IsUnspecified()) {
		return []string{"http://" + net.JoinHostPort(host, port)}
	}

	urls := []string{"http://" + net.JoinHostPort("localhost", port)}
	for _, lan := range LANAddresses() {
		urls = append(urls, "http://"+net.JoinHostPort(lan, port))
	}
	return urls
}
