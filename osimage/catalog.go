package osimage

import (
	"fmt"

	"github.com/mitchellh/copystructure"
)

// catalog is ordered by match priority: the first descriptor with a
// matching keyword wins.
var catalog = []Descriptor{
	{
		Name:     "Android",
		Image:    "/assets/os-android.svg",
		Keywords: []string{"android", "lineage", "lineageos", "aosp", "android os"},
	},
	{
		Name:     "Alibaba",
		Image:    "/assets/os-alibaba.svg",
		Keywords: []string{"alibaba"},
	},
	{
		Name:     "AlmaLinux",
		Image:    "/assets/os-alma.svg",
		Keywords: []string{"alma", "almalinux"},
	},
	{
		Name:     "Alpine Linux",
		Image:    "/assets/os-alpine.webp",
		Keywords: []string{"alpine", "alpine linux"},
	},
	{
		Name:     "Arch Linux",
		Image:    "/assets/os-arch.svg",
		Keywords: []string{"arch", "archlinux", "arch linux"},
	},
	{
		Name:     "Armbian",
		Image:    "/assets/os-armbian.svg",
		Keywords: []string{"armbian"},
	},
	{
		Name:     "CentOS",
		Image:    "/assets/os-centos.svg",
		Keywords: []string{"centos", "cent os"},
	},
	{
		Name:     "Debian",
		Image:    "/assets/os-debian.svg",
		Keywords: []string{"debian", "deb"},
	},
	{
		Name:     "Fedora",
		Image:    "/assets/os-fedora.svg",
		Keywords: []string{"fedora"},
	},
	{
		Name:     "FreeBSD",
		Image:    "/assets/os-freebsd.svg",
		Keywords: []string{"freebsd", "bsd"},
	},
	{
		Name:     "Gentoo",
		Image:    "/assets/os-gentoo.svg",
		Keywords: []string{"gentoo"},
	},
	{
		Name:       "ImmortalWrt",
		Image:      "/assets/os-openwrt.svg",
		Keywords:   []string{"immortalwrt", "immortal", "emmortal"},
		Monochrome: true,
	},
	{
		Name:     "iStoreOS",
		Image:    "/assets/os-istore.png",
		Keywords: []string{"istore", "istoreos", "istore os"},
	},
	{
		Name:     "Kali Linux",
		Image:    "/assets/os-kail.svg",
		Keywords: []string{"kail", "kali", "kali linux"},
	},
	{
		Name:     "Linux Mint",
		Image:    "/assets/os-mint.svg",
		Keywords: []string{"mint", "linux mint"},
	},
	{
		Name:       "macOS",
		Image:      "/assets/os-macos.svg",
		Keywords:   []string{"macos"},
		Monochrome: true,
	},
	{
		Name:     "Manjaro",
		Image:    "/assets/os-manjaro-.svg",
		Keywords: []string{"manjaro"},
	},
	{
		Name:     "NixOS",
		Image:    "/assets/os-nix.svg",
		Keywords: []string{"nixos", "nix os", "nix"},
	},
	{
		Name:     "OpenCloudOS",
		Image:    "/assets/os-opencloud.svg",
		Keywords: []string{"opencloud"},
	},
	{
		Name:     "openSUSE",
		Image:    "/assets/os-openSUSE.svg",
		Keywords: []string{"opensuse", "suse"},
	},
	{
		Name:       "OpenWrt",
		Image:      "/assets/os-openwrt.svg",
		Keywords:   []string{"openwrt", "open wrt", "open-wrt", "qwrt"},
		Monochrome: true,
	},
	{
		Name:     "Proxmox VE",
		Image:    "/assets/os-proxmox.ico",
		Keywords: []string{"proxmox", "proxmox ve"},
	},
	{
		Name:     "Red Hat",
		Image:    "/assets/os-redhat.svg",
		Keywords: []string{"redhat", "rhel", "red hat"},
	},
	{
		Name:     "Rocky Linux",
		Image:    "/assets/os-rocky.svg",
		Keywords: []string{"rocky", "rocky linux"},
	},
	{
		Name:     "Synology DSM",
		Image:    "/assets/os-synology.ico",
		Keywords: []string{"synology", "dsm", "synology dsm"},
	},
	{
		Name:     "Ubuntu",
		Image:    "/assets/os-ubuntu.svg",
		Keywords: []string{"ubuntu", "elementary"},
	},
	{
		// "ms" also matches unrelated words like "forms". Known and kept.
		Name:     "Windows",
		Image:    "/assets/os-windows.svg",
		Keywords: []string{"windows", "win", "microsoft", "ms"},
	},
}

// Catalog returns a deep copy of all known descriptors in match order.
func Catalog() []Descriptor {
	copied, err := copystructure.Copy(catalog)
	if err != nil {
		// Descriptors only hold strings, slices and bools.
		panic(fmt.Sprintf("osimage: failed to copy catalog: %s", err))
	}
	return copied.([]Descriptor) //nolint:forcetypeassert
}

// Len returns the number of descriptors in the catalog.
func Len() int {
	return len(catalog)
}
