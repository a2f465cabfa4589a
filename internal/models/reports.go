// Package models defines one typed result record per vcadm command, plus the
// relocation plan types of the datastore evacuation core. Commands never
// return loose field bags; every report row is one of these structs.
package models

// NetworkClusterInfo maps a network to the clusters of the hosts attached to
// it.
type NetworkClusterInfo struct {
	Name         string   `json:"name"`
	ClusterNames []string `json:"clusterNames"`
	ClusterIDs   []string `json:"clusterIds"`
	ObjectType   string   `json:"objectType"`
	Ref          string   `json:"ref"`
}

// BrokenUplink is a physical NIC referenced as a virtual switch uplink that
// reports zero or absent link speed.
type BrokenUplink struct {
	Host          string `json:"host"`
	VirtualSwitch string `json:"virtualSwitch"`
	NIC           string `json:"nic"`
	LinkSpeedMbps int32  `json:"linkSpeedMbps"`
}

// VMAddressMatch is a VM located by MAC, IP, guest host name or instance
// UUID. Matched records the address or id that selected it.
type VMAddressMatch struct {
	Name    string `json:"name"`
	Matched string `json:"matchedAddressOrId"`
	Ref     string `json:"ref"`
}

// VMRawDeviceMapping is a raw device mapping disk joined to the canonical
// name of its backing LUN.
type VMRawDeviceMapping struct {
	VMName            string `json:"vmName"`
	DiskName          string `json:"diskName"`
	CompatibilityMode string `json:"compatibilityMode"`
	CanonicalName     string `json:"canonicalName"`
	DeviceDisplayName string `json:"deviceDisplayName"`
	Ref               string `json:"ref"`
}

// VMNetworkInfo places a VM on a network together with its host and cluster.
type VMNetworkInfo struct {
	VMName     string `json:"vmName"`
	Network    string `json:"network"`
	Host       string `json:"host"`
	Cluster    string `json:"cluster"`
	PowerState string `json:"powerState"`
	Ref        string `json:"ref"`
}

// VMDiskInfo describes one virtual disk, flat or RDM.
type VMDiskInfo struct {
	VMName            string `json:"vmName"`
	DiskName          string `json:"diskName"`
	SCSIAddress       string `json:"scsiAddress"`
	DeviceDisplayName string `json:"deviceDisplayName"`
	SizeGB            int    `json:"sizeGB"`
	CanonicalName     string `json:"canonicalName"`
	DatastorePath     string `json:"datastorePath,omitempty"`
}

// VMEVCInfo pairs a VM's minimum required EVC mode with the mode applied on
// its cluster.
type VMEVCInfo struct {
	Name           string `json:"name"`
	PowerState     string `json:"powerState"`
	VMEVCMode      string `json:"vmEvcMode"`
	ClusterEVCMode string `json:"clusterEvcMode"`
	ClusterName    string `json:"clusterName"`
}

// HostHBAInfo is one fibre-channel host bus adapter with its world wide
// names.
type HostHBAInfo struct {
	Host       string `json:"host"`
	DeviceName string `json:"deviceName"`
	PortWWN    string `json:"portWWN"`
	NodeWWN    string `json:"nodeWWN"`
	Status     string `json:"status"`
}

// HostFirmwareInfo collects BIOS, storage controller and management
// controller firmware versions of a host.
type HostFirmwareInfo struct {
	Host               string `json:"host"`
	SystemBIOS         string `json:"systemBIOS"`
	SmartArrayFirmware string `json:"smartArrayFirmware"`
	ILOFirmware        string `json:"iloFirmware"`
	Model              string `json:"model"`
}

// HostNICFirmwareInfo lists NIC driver and firmware versions of a host.
type HostNICFirmwareInfo struct {
	Host                string   `json:"host"`
	NICDriverVersions   []string `json:"nicDriverVersions"`
	NICFirmwareVersions []string `json:"nicFirmwareVersions"`
}

// HostLogicalVolumeInfo lists the logical volumes the host health system
// reports.
type HostLogicalVolumeInfo struct {
	Host           string   `json:"host"`
	LogicalVolumes []string `json:"logicalVolumes"`
}

// DuplicateMACGroup is a MAC address shared by more than one network
// adapter.
type DuplicateMACGroup struct {
	VMNames []string `json:"vmNames"`
	MAC     string   `json:"duplicatedMac"`
	Refs    []string `json:"refs"`
	Count   int      `json:"count"`
}

// TemplateInfo describes a template and the host it is registered on.
type TemplateInfo struct {
	Name string `json:"name"`
	Host string `json:"host"`
	Ref  string `json:"ref"`
}

// RoleInfo describes an authorization role on a given server.
type RoleInfo struct {
	Name       string   `json:"name"`
	ID         int32    `json:"id"`
	Privileges []string `json:"privileges"`
	Server     string   `json:"server"`
}
