package mcpserver

// RecordFormatContract describes the canonical GEDCOM record format that
// LLM consumers should follow when importing records.
const RecordFormatContract = `# Gedbase Record Format Contract

Every record imported into Gedbase MUST be a complete GEDCOM record
following this structure.

## Structure

` + "```" + `gedcom
0 @I1@ INDI
1 NAME John /Smith/
1 SEX M
1 BIRT
2 DATE 12 JUN 1876
2 PLAC Westminster, London, England
1 FAMS @F1@
` + "```" + `

## Rules

1. **One level-0 line first.** The record starts with ` + "`" + `0 @XREF@ TAG` + "`" + `
   where TAG is one of INDI, FAM, SOUR, REPO, NOTE or OBJE. Header (HEAD)
   and trailer (TRLR) records carry no xref.
2. **Cross-reference identifiers** are wrapped in at-signs: ` + "`" + `@I1@` + "`" + `,
   ` + "`" + `@F2@` + "`" + `. Pointers to other records use the same form as line values
   (e.g. ` + "`" + `1 HUSB @I1@` + "`" + `).
3. **Levels increase by at most one** per line and never skip: a level-2
   line always refines the level-1 line above it.
4. **Dates** use GEDCOM date syntax: ` + "`" + `12 JUN 1876` + "`" + `, ` + "`" + `ABT 1900` + "`" + `,
   ` + "`" + `BET 1900 AND 1910` + "`" + `. Month names are three-letter English
   abbreviations in upper case.
5. **Places** are comma-separated, smallest part first:
   ` + "`" + `Westminster, London, England` + "`" + `.
6. **Names** wrap the surname in slashes: ` + "`" + `1 NAME John /Smith/` + "`" + `.
7. **Line endings** between lines are single newlines; the importer
   normalises whitespace and strips carriage returns.
8. **Literal at-signs** inside values are escaped as ` + "`" + `@@` + "`" + `.

## Examples

A family linking two individuals:

` + "```" + `gedcom
0 @F1@ FAM
1 HUSB @I1@
1 WIFE @I2@
1 CHIL @I3@
1 MARR
2 DATE 4 MAY 1875
` + "```" + `

A source with a title:

` + "```" + `gedcom
0 @S1@ SOUR
1 TITL Parish register of St Mary, Westminster
1 REPO @R1@
` + "```" + `
`
