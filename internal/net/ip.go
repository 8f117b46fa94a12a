package net

import (
	"net"
	"strconv"

	"KufiCraft/internal/logger"
)

// OutgoingIP finds the preferred local IP address to share with viewers.
func OutgoingIP() string {
	conn, err := net.Dial("udp", "8.8.8.8:80")
	if err != nil {
		// Offline networks: fall back to the interface list.
		ip := firstIPv4()
		logger.For("preview").Debug("no route out, using interface address", "ip", ip.String())
		return ip.String()
	}
	defer conn.Close()

	localAddr := conn.LocalAddr().(*net.UDPAddr)
	return localAddr.IP.String()
}

// ShareURL builds the preview address viewers open.
func ShareURL(ip string, port int) string {
	return "http://" + net.JoinHostPort(ip, strconv.Itoa(port)) + "/"
}
