// Package discovery provides mDNS-based discovery of compass devices.
//
// A compass runs a small web server and advertises it as an "_http._tcp"
// service under a hostname of the form "compass.local" or
// "compass-<id>.local". Every other HTTP service on the network is ignored.
//
// # Discovery Process
//
//  1. Broadcasts mDNS queries on the local network
//  2. Listens for "_http._tcp" advertisements
//  3. Keeps entries whose hostname matches the compass pattern
//  4. Collects address, port and TXT metadata (including "version")
//  5. Returns the devices found when the timeout expires
//
// # Usage Example
//
//	devices, err := discovery.ScanForDevices(5 * time.Second)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, device := range devices {
//	    fmt.Println(device)
//	}
//
// # Network Requirements
//
// - Requires multicast support on the network interface
// - Devices must be on the same local network segment
// - Firewall must allow mDNS (UDP port 5353)
package discovery
