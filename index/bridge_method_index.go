package index

import (
	"github.com/swind/go-jdeobf/entry"
)

// BridgeMethodIndex pairs compiler generated bridge methods with the
// specialized methods they forward to.
type BridgeMethodIndex struct {
	BaseIndexer

	entryIndex       *EntryIndex
	inheritanceIndex *InheritanceIndex
	referenceIndex   *ReferenceIndex

	bridgeToSpecialized map[entry.MethodEntry]entry.MethodEntry
	specializedToBridge map[entry.MethodEntry]entry.MethodEntry
}

func NewBridgeMethodIndex(entryIndex *EntryIndex, inheritanceIndex *InheritanceIndex, referenceIndex *ReferenceIndex) *BridgeMethodIndex {
	return &BridgeMethodIndex{
		entryIndex:          entryIndex,
		inheritanceIndex:    inheritanceIndex,
		referenceIndex:      referenceIndex,
		bridgeToSpecialized: make(map[entry.MethodEntry]entry.MethodEntry),
		specializedToBridge: make(map[entry.MethodEntry]entry.MethodEntry),
	}
}

// FindBridgeMethods needs the complete entry and reference graphs.
func (i *BridgeMethodIndex) FindBridgeMethods() {
	for _, method := range i.entryIndex.Methods() {
		access, ok := i.entryIndex.MethodAccess(method)
		if !ok || !access.IsSynthetic() {
			continue
		}
		i.indexSyntheticMethod(method, access)
	}
}

func (i *BridgeMethodIndex) indexSyntheticMethod(synthetic entry.MethodEntry, access entry.AccessFlags) {
	specialized, ok := i.findSpecializedMethod(synthetic)
	if !ok {
		return
	}
	if !access.IsBridge() && !i.isPotentialBridge(synthetic, specialized) {
		return
	}

	i.bridgeToSpecialized[synthetic] = specialized
	// the first bridge found stays unless a bridge above it turns up
	if existing, ok := i.specializedToBridge[specialized]; ok && !i.isHigher(synthetic, existing) {
		return
	}
	i.specializedToBridge[specialized] = synthetic
}

// isHigher reports whether bridge a is declared above bridge b.
func (i *BridgeMethodIndex) isHigher(a, b entry.MethodEntry) bool {
	for _, descendant := range i.inheritanceIndex.Descendants(a.Owner()) {
		if descendant == b.Owner() {
			return true
		}
	}
	return false
}

// findSpecializedMethod: a bridge body calls exactly one method.
func (i *BridgeMethodIndex) findSpecializedMethod(bridge entry.MethodEntry) (entry.MethodEntry, bool) {
	referenced := i.referenceIndex.MethodsReferencedBy(bridge)
	if len(referenced) != 1 {
		return entry.MethodEntry{}, false
	}
	return referenced[0], true
}

func (i *BridgeMethodIndex) isPotentialBridge(bridge, specialized entry.MethodEntry) bool {
	// private, final and static methods are never inherited
	access, ok := i.entryIndex.MethodAccess(bridge)
	if !ok || access.IsPrivate() || access.IsFinal() || access.IsStatic() {
		return false
	}

	bridgeArgs := bridge.Desc().Args()
	specializedArgs := specialized.Desc().Args()
	if len(bridgeArgs) != len(specializedArgs) {
		return false
	}
	for n := range bridgeArgs {
		if !i.areTypesBridgeCompatible(bridgeArgs[n], specializedArgs[n]) {
			return false
		}
	}
	return i.areTypesBridgeCompatible(bridge.Desc().Return(), specialized.Desc().Return())
}

func (i *BridgeMethodIndex) areTypesBridgeCompatible(bridgeDesc, specializedDesc entry.TypeDescriptor) bool {
	if bridgeDesc == specializedDesc {
		return true
	}
	// generic erasure only ever widens class types
	if bridgeDesc.IsType() && specializedDesc.IsType() {
		relation := i.inheritanceIndex.ComputeClassRelation(specializedDesc.TypeEntry(), bridgeDesc.TypeEntry())
		return relation != Unrelated
	}
	return false
}

// ProcessIndex also answers lookups of a specialized method under its
// bridge's name, which is how it is seen once the names are unified.
func (i *BridgeMethodIndex) ProcessIndex(*JarIndex) {
	pairs := make(map[entry.MethodEntry]entry.MethodEntry, len(i.specializedToBridge))
	for specialized, bridge := range i.specializedToBridge {
		pairs[specialized] = bridge
	}
	for specialized, bridge := range pairs {
		if specialized.Name() == bridge.Name() {
			continue
		}
		renamed := specialized.WithName(bridge.Name()).(entry.MethodEntry)
		if renamed == bridge {
			continue
		}
		i.specializedToBridge[renamed] = bridge
	}
}

func (i *BridgeMethodIndex) IsBridgeMethod(m entry.MethodEntry) bool {
	_, ok := i.bridgeToSpecialized[m]
	return ok
}

func (i *BridgeMethodIndex) IsSpecializedMethod(m entry.MethodEntry) bool {
	_, ok := i.specializedToBridge[m]
	return ok
}

func (i *BridgeMethodIndex) BridgeFromSpecialized(specialized entry.MethodEntry) (entry.MethodEntry, bool) {
	bridge, ok := i.specializedToBridge[specialized]
	return bridge, ok
}

func (i *BridgeMethodIndex) SpecializedFromBridge(bridge entry.MethodEntry) (entry.MethodEntry, bool) {
	specialized, ok := i.bridgeToSpecialized[bridge]
	return specialized, ok
}

func (i *BridgeMethodIndex) Len() int { return len(i.bridgeToSpecialized) }
