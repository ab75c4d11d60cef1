package constants

import "errors"

// BasePackages is the fixed package set installed into the target root.
func BasePackages() []string {
	return []string{
		"base",
		"base-devel",
		"linux",
		"linux-firmware",
		"e2fsprogs",
		"dosfstools",
		"grub",
		"efibootmgr",
		"networkmanager",
		"sudo",
		"vim",
		"man-db",
		"man-pages",
	}
}

var (
	ErrAlreadyMounted     = errors.New("already mounted")
	ErrUserAbort          = errors.New("installation aborted by user")
	ErrPreviousStepFailed = errors.New("previous step failed")
)

const (
	OpStopMirrorService = "stop-mirror-service"
	OpEnableNTP         = "enable-ntp"
	OpWipeDisk          = "wipe-disk"
	OpPartitionDisk     = "partition-disk"
	OpFormatPartitions  = "format-partitions"
	OpMountPartitions   = "mount-partitions"
	OpCreateSwapfile    = "create-swapfile"
	OpEnableSwap        = "enable-swap"
	OpUpdateMirrorList  = "update-mirrorlist"
	OpInitKeyring       = "init-keyring"
	OpInstallBase       = "install-base"

	OpConfigureHostname = "configure-hostname"
	OpConfigureTimezone = "configure-timezone"
	OpConfigureLocales  = "configure-locales"
	OpConfigureKeymap   = "configure-keymap"

	OpGenerateFstab = "generate-fstab"
)

const (
	DefaultTarget     = "/mnt"
	DefaultConfigFile = "/etc/archstrap/config.yaml"
	DefaultKeyring    = "archlinux"
	LogDir            = "/run/archstrap"

	BootDir      = "/boot"
	SwapfileName = "/swapfile"
	FstabFile    = "/etc/fstab"
	MirrorList   = "/etc/pacman.d/mirrorlist"

	MirrorService = "reflector"

	// GPT layout, in parted units
	BootPartitionName  = "uefi_boot"
	BootPartitionStart = "1MiB"
	BootPartitionEnd   = "385MiB"
	RootPartitionName  = "root"
	RootPartitionEnd   = "100%"

	BootFS = "vfat"
	RootFS = "ext4"

	MountOptionNoAtime = "noatime"
	SwapfileMode       = 0o600
	BootDirMode        = 0o755

	OsRelease = "/etc/os-release"
	EfiDir    = "/sys/firmware/efi"
)
