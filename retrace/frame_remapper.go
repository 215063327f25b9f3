package retrace

import (
	"strings"

	"github.com/emirpasic/gods/sets/linkedhashset"

	"github.com/swind/go-jdeobf/entry"
	"github.com/swind/go-jdeobf/mapping"
	"github.com/swind/go-jdeobf/proguard"
)

// FrameRemapper turns obfuscated frames back into deobfuscated ones using
// the names a remapper holds for the indexed jar. Members are looked up
// among the declarations of the frame's class; line numbers are kept.
type FrameRemapper struct {
	remapper *mapping.EntryRemapper
}

func NewFrameRemapper(remapper *mapping.EntryRemapper) *FrameRemapper {
	return &FrameRemapper{remapper: remapper}
}

// OriginalClassName deobfuscates an external class name. Unknown classes
// keep their name.
func (f *FrameRemapper) OriginalClassName(obfuscated string) string {
	if obfuscated == "" {
		return ""
	}
	class := entry.NewClass(proguard.InternalName(obfuscated))
	return proguard.ExternalName(f.remapper.DeobfuscateClass(class).FullName())
}

// Transform returns every frame the obfuscated one may stand for. A frame
// whose member is not found is returned with only its class remapped.
func (f *FrameRemapper) Transform(obfuscated FrameInfo) []FrameInfo {
	className := f.OriginalClassName(obfuscated.ClassName)
	sourceFile := obfuscated.SourceFile
	if className != obfuscated.ClassName && sourceFile != "" &&
		sourceFile != "Unknown Source" && sourceFile != "Native Method" {
		sourceFile = sourceFileName(className)
	}

	frames := linkedhashset.New()
	class := entry.NewClass(proguard.InternalName(obfuscated.ClassName))
	for _, child := range f.remapper.JarIndex().ChildrenOf(class) {
		switch member := child.(type) {
		case entry.FieldEntry:
			if obfuscated.FieldName == "" || member.Name() != obfuscated.FieldName {
				continue
			}
			if obfuscated.Type != "" && obfuscated.Type != proguard.ExternalType(member.Desc()) {
				continue
			}
			deobf := f.remapper.Deobfuscate(member).(entry.FieldEntry)
			frame := obfuscated
			frame.ClassName = className
			frame.SourceFile = sourceFile
			frame.Type = proguard.ExternalType(deobf.Desc())
			frame.FieldName = deobf.Name()
			frames.Add(frame)

		case entry.MethodEntry:
			if obfuscated.MethodName == "" || member.Name() != obfuscated.MethodName {
				continue
			}
			if obfuscated.Type != "" && obfuscated.Type != proguard.ExternalType(member.Desc().Return()) {
				continue
			}
			if obfuscated.Arguments != "" && normalizeArguments(obfuscated.Arguments) != proguard.ExternalArguments(member.Desc()) {
				continue
			}
			deobf := f.remapper.Deobfuscate(member).(entry.MethodEntry)
			frame := obfuscated
			frame.ClassName = className
			frame.SourceFile = sourceFile
			frame.Type = proguard.ExternalType(deobf.Desc().Return())
			frame.MethodName = deobf.Name()
			frame.Arguments = proguard.ExternalArguments(deobf.Desc())
			frames.Add(frame)
		}
	}

	if frames.Empty() {
		frame := obfuscated
		frame.ClassName = className
		frame.SourceFile = sourceFile
		return []FrameInfo{frame}
	}
	out := make([]FrameInfo, 0, frames.Size())
	for _, v := range frames.Values() {
		out = append(out, v.(FrameInfo))
	}
	return out
}

func normalizeArguments(arguments string) string {
	return strings.Join(strings.Fields(arguments), "")
}
