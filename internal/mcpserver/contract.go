package mcpserver

// DatasetFormatContract describes the canonical headcount plan CSV
// format that LLM consumers should follow when fetching or generating
// datasets.
const DatasetFormatContract = `# Headcount Plan CSV Contract

Every dataset loaded into the org chart builder MUST follow this structure.

## Structure

` + "```" + `csv
department,role,q1,q2,q3,q4
Engineering,Backend Engineer,2,3,3,4
Engineering,Engineering Manager,1,1,1,1
Design,Product Designer (contract),1,1,2,2
` + "```" + `

## Rules

1. **The header row is mandatory.** It must be exactly
   ` + "`" + `department,role,q1,q2,q3,q4` + "`" + ` (column names are case-insensitive,
   a UTF-8 BOM before it is tolerated).
2. **One row per role template.** The ` + "`" + `department` + "`" + ` cell groups rows into
   departments; the first appearance of a department name fixes its display
   order and its color from a fixed palette.
3. **Quarter cells are planned headcounts:** non-negative integers. A blank
   cell counts as 0. Negative numbers, fractions, and non-numeric text are
   rejected.
4. **Rows whose four quarters are all zero are dropped** during import.
5. **Role names are cleaned for display:** parenthetical qualifiers like
   ` + "`" + `(contract)` + "`" + ` and trailing marker characters (` + "`" + `* + ? ! # ~` + "`" + `) are
   stripped; the original spelling is kept for reference.
6. **Ids are positional.** Departments get ` + "`" + `dept-1` + "`" + `, ` + "`" + `dept-2` + "`" + `, ...
   in first-appearance order; kept rows get ` + "`" + `role-1` + "`" + `, ` + "`" + `role-2` + "`" + `, ...
   in file order. Person nodes expand from templates as
   ` + "`" + `{roleId}-person-{index}` + "`" + `, so the same file always yields the same ids.
7. **Encoding** is UTF-8. Comma is the only accepted separator.

## Effects of loading a new dataset

- Manager assignments, custom roles, and collapse state survive a reload:
  they are re-applied wherever the referenced ids still exist.
- A person referenced as someone's manager stays on the chart as a future
  placeholder even in quarters where their role's headcount is 0.
`
