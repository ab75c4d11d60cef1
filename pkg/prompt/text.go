package prompt

const installConfirm = `
This installer assumes the following characteristics for the target system:
  * UEFI boot (without Secure Boot)
  * wired Internet connection (with DHCP)
Any other type of configuration is not supported.
Confirm installation? (y/n)
=> `

const installDisk = `
Available disks:

%s

Which disk should Arch be installed to? (CAUTION: the disk will be completely erased!)
=> `

const processorBrand = `
What is the brand of your CPU? (%s)
=> `
