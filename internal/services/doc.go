// Package services implements one service per vcadm command family, each a
// thin query→filter→project pipeline over a single explicit connection.
//
//	┌───────────────────┬──────────────────────────────────────────────────┐
//	│ Service           │ Commands                                         │
//	├───────────────────┼──────────────────────────────────────────────────┤
//	│ NetworkService    │ get-network-cluster-info, get-vm-by-network      │
//	│ HostService       │ get-host-broken-uplinks, get-host-hba-wwn,       │
//	│                   │ get-host-firmware-info,                          │
//	│                   │ get-host-nic-firmware-driver-info,               │
//	│                   │ get-host-logical-volume-info                     │
//	│ VMService         │ get-vm-by-address, get-vm-by-rdm,                │
//	│                   │ get-vm-disks-and-rdm, get-vm-evc-info,           │
//	│                   │ find-duplicate-mac-addresses                     │
//	│ TemplateService   │ move-template-to-host                            │
//	│ RoleService       │ copy-role                                        │
//	│ EvacuationService │ evacuate-datastore                               │
//	└───────────────────┴──────────────────────────────────────────────────┘
//
// Every query requests only the property paths it projects. Query services
// never partially fail: they return a full (possibly empty) result set or an
// error; the evacuation service alone tolerates per-object failure.
package services
