package services

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/vmware/govmomi/vim25/mo"
	"github.com/vmware/govmomi/vim25/types"

	"github.com/vctools/vcadm/internal/models"
	vcerrors "github.com/vctools/vcadm/pkg/errors"
	"github.com/vctools/vcadm/pkg/vmware"
)

// VMService answers VM-centric queries.
type VMService struct {
	conn *vmware.Connection
}

func NewVMService(conn *vmware.Connection) *VMService {
	return &VMService{conn: conn}
}

// AddressQuery selects VMs by exactly one address kind. The kinds are
// mutually exclusive.
type AddressQuery struct {
	MACs          []string
	IP            string
	IPWildcard    string
	GuestHostname string
	UUID          string
}

func (q AddressQuery) validate() error {
	modes := 0
	if len(q.MACs) > 0 {
		modes++
	}
	for _, set := range []string{q.IP, q.IPWildcard, q.GuestHostname, q.UUID} {
		if set != "" {
			modes++
		}
	}
	if modes != 1 {
		return vcerrors.NewPreconditionError("exactly one of mac, ip, wildcard, hostname or uuid must be given")
	}
	return nil
}

var addressProps = []string{
	"name",
	"config.hardware.device",
	"config.uuid",
	"guest.net",
	"guest.hostName",
}

// ByAddress locates VMs by MAC address, exact IP, IP wildcard, guest host
// name or instance UUID.
func (s *VMService) ByAddress(ctx context.Context, query AddressQuery) ([]models.VMAddressMatch, error) {
	if err := query.validate(); err != nil {
		return nil, err
	}

	macs := make(map[string]struct{}, len(query.MACs))
	for _, mac := range query.MACs {
		macs[strings.ToLower(mac)] = struct{}{}
	}

	var wildcard *regexp.Regexp
	if query.IPWildcard != "" {
		wildcard = vmware.WildcardToRegexp(query.IPWildcard)
	}

	var hostnameRe *regexp.Regexp
	if query.GuestHostname != "" {
		re, err := regexp.Compile("(?i)" + query.GuestHostname)
		if err != nil {
			return nil, fmt.Errorf("invalid hostname pattern: %w", err)
		}
		hostnameRe = re
	}

	wantUUID := query.UUID
	if wantUUID != "" {
		if parsed, err := uuid.Parse(wantUUID); err == nil {
			wantUUID = parsed.String()
		}
	}

	var vms []mo.VirtualMachine
	if err := s.conn.Retrieve(ctx, []string{"VirtualMachine"}, addressProps, &vms); err != nil {
		return nil, err
	}

	var matches []models.VMAddressMatch
	for _, vm := range vms {
		record := func(matched string) {
			matches = append(matches, models.VMAddressMatch{
				Name:    vm.Name,
				Matched: matched,
				Ref:     vm.Self.Value,
			})
		}

		switch {
		case len(macs) > 0:
			if vm.Config == nil {
				continue
			}
			for _, device := range vm.Config.Hardware.Device {
				nic, ok := device.(types.BaseVirtualEthernetCard)
				if !ok {
					continue
				}
				mac := strings.ToLower(nic.GetVirtualEthernetCard().MacAddress)
				if _, ok := macs[mac]; ok {
					record(mac)
				}
			}
		case query.IP != "" || wildcard != nil:
			for _, ip := range guestIPs(&vm) {
				if (query.IP != "" && ip == query.IP) || (wildcard != nil && wildcard.MatchString(ip)) {
					record(ip)
				}
			}
		case hostnameRe != nil:
			if vm.Guest != nil && hostnameRe.MatchString(vm.Guest.HostName) {
				record(vm.Guest.HostName)
			}
		case wantUUID != "":
			if vm.Config != nil && strings.EqualFold(vm.Config.Uuid, wantUUID) {
				record(vm.Config.Uuid)
			}
		}
	}
	return matches, nil
}

func guestIPs(vm *mo.VirtualMachine) []string {
	if vm.Guest == nil {
		return nil
	}
	var ips []string
	for _, net := range vm.Guest.Net {
		ips = append(ips, net.IpAddress...)
	}
	return ips
}

// MACEntry is one network adapter record, the unit of duplicate detection.
type MACEntry struct {
	VMName string
	Ref    string
	MAC    string
}

// DuplicateMACs scans every VM network adapter and reports MAC addresses
// assigned to more than one adapter.
func (s *VMService) DuplicateMACs(ctx context.Context) ([]models.DuplicateMACGroup, error) {
	var vms []mo.VirtualMachine
	if err := s.conn.Retrieve(ctx, []string{"VirtualMachine"}, []string{"name", "config.hardware.device"}, &vms); err != nil {
		return nil, err
	}

	var entries []MACEntry
	for _, vm := range vms {
		if vm.Config == nil {
			continue
		}
		for _, device := range vm.Config.Hardware.Device {
			nic, ok := device.(types.BaseVirtualEthernetCard)
			if !ok {
				continue
			}
			mac := strings.ToLower(nic.GetVirtualEthernetCard().MacAddress)
			if mac == "" {
				continue
			}
			entries = append(entries, MACEntry{VMName: vm.Name, Ref: vm.Self.Value, MAC: mac})
		}
	}
	return GroupDuplicateMACs(entries), nil
}

// GroupDuplicateMACs groups adapter records by MAC and keeps the groups
// whose address occurs more than once. Groups come back sorted by address.
func GroupDuplicateMACs(entries []MACEntry) []models.DuplicateMACGroup {
	byMAC := make(map[string][]MACEntry)
	for _, e := range entries {
		byMAC[e.MAC] = append(byMAC[e.MAC], e)
	}

	var groups []models.DuplicateMACGroup
	for mac, members := range byMAC {
		if len(members) < 2 {
			continue
		}
		group := models.DuplicateMACGroup{MAC: mac, Count: len(members)}
		for _, m := range members {
			group.VMNames = append(group.VMNames, m.VMName)
			group.Refs = append(group.Refs, m.Ref)
		}
		groups = append(groups, group)
	}

	sort.Slice(groups, func(i, j int) bool { return groups[i].MAC < groups[j].MAC })
	return groups
}
