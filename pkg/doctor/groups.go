package doctor

// groupDefinitions defines the check groups with their metadata.
var groupDefinitions = map[string]struct {
	Name        string
	Description string
	CheckIDs    []string
}{
	GroupSystem: {
		Name:        "System",
		Description: "Package managers and privileges required by every command",
		CheckIDs:    []string{IDApt, IDSnap, IDSudo, IDSystemctl},
	},
	GroupDesktop: {
		Name:        "Desktop Integration",
		Description: "Tools for registering applications, MIME types, and icons",
		CheckIDs:    []string{IDXdgMime, IDDesktopDatabase, IDIconCache, IDGsettings, IDGnomeExtensions},
	},
	GroupNFS: {
		Name:        "NFS",
		Description: "Required for nfs server/client configuration",
		CheckIDs:    []string{IDExportfs, IDMountNFS},
	},
	GroupDev: {
		Name:        "Development",
		Description: "Workstation tooling installed by devsetup",
		CheckIDs:    []string{IDGit, IDDocker, IDPsql, IDStarship},
	},
}

// groupOrder fixes the display order of groups.
var groupOrder = []string{GroupSystem, GroupDesktop, GroupNFS, GroupDev}

// GetGroups returns all check groups in display order.
func GetGroups() []CheckGroup {
	var groups []CheckGroup
	for _, groupID := range groupOrder {
		def := groupDefinitions[groupID]
		groups = append(groups, CheckGroup{
			ID:          groupID,
			Name:        def.Name,
			Description: def.Description,
		})
	}
	return groups
}

// GetGroupDefinition returns the definition for a specific group.
func GetGroupDefinition(groupID string) (struct {
	Name        string
	Description string
	CheckIDs    []string
}, bool) {
	def, ok := groupDefinitions[groupID]
	return def, ok
}

// GetAllGroupIDs returns all group IDs in display order.
func GetAllGroupIDs() []string {
	return groupOrder
}
