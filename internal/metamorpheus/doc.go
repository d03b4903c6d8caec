// Package metamorpheus translates the canonical search model into the three
// files the MetaMorpheus command-line engine reads:
//
//   - Mods/CustomModifications.txt, a flat file of tagged modification records
//   - ProteolyticDigestion/proteases.tsv, the protease table
//   - <workdir>/SearchTask.toml, the search task document
//
// A Generator resolves the digestion rule once (protease name and missed
// cleavages) and shares it between the protease table and the task document.
// Configurations the engine cannot express fail in New, before any file is
// touched.
package metamorpheus
