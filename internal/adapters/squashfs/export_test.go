package squashfs

// SetOwnerForTest replaces the uid and gid images are chowned to.
func (p *Packer) SetOwnerForTest(uid, gid int) {
	p.uid, p.gid = uid, gid
}
