// Package generate creates recipes in bulk from a list of dish names.
//
// A batch runs in four steps:
//
//  1. ParseNames splits, trims and de-duplicates the input; too few or too
//     many names reject the batch before anything is streamed.
//  2. Names already stored under the same normalized name are reported as
//     skipped without calling the generation service.
//  3. The remaining names are generated in small concurrent groups with a
//     pause between groups. A generated recipe whose name and core
//     ingredients match a stored one is merged into it; otherwise it is
//     created.
//  4. The recipes cache tag is invalidated and a done event closes the stream.
//
// Progress is delivered on a channel of Event values so the same run can
// feed an SSE response or a CLI.
package generate
